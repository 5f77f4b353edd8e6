// @title           Job Board API
// @version         1.0
// @description     API доски вакансий: вакансии, отклики, резюме и внешний поиск.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "jobboard_backend/internal/app"

func main() {
	app.Run()
}
