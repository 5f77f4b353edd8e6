package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Experience struct {
	Title       string     `bson:"title" json:"title"`
	Company     string     `bson:"company" json:"company"`
	StartDate   *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
}

type Profile struct {
	Phone      string       `bson:"phone,omitempty" json:"phone,omitempty"`
	Location   string       `bson:"location,omitempty" json:"location,omitempty"`
	Bio        string       `bson:"bio,omitempty" json:"bio,omitempty"`
	Resume     string       `bson:"resume,omitempty" json:"resume,omitempty"`
	Skills     []string     `bson:"skills,omitempty" json:"skills,omitempty"`
	Experience []Experience `bson:"experience,omitempty" json:"experience,omitempty"`
}

// User - учётная запись. PasswordHash никогда не сериализуется в JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Role         UserRole           `bson:"role" json:"role"`
	Company      string             `bson:"company,omitempty" json:"company,omitempty"`
	Profile      Profile            `bson:"profile" json:"profile"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
