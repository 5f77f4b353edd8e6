package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost - стоимость bcrypt, не ниже 10.
const PasswordCost = bcrypt.DefaultCost

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// dummyHash сравнивается, когда email не найден, чтобы время ответа
// не выдавало существование аккаунта.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("jobboard-dummy-password"), PasswordCost)

// BurnCompare тратит столько же времени, сколько настоящая проверка.
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
