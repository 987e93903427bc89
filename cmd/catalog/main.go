package main

// @title                       Catalog API
// @version                     1.0
// @description                 Localized catalog, admin sessions and the shared gallery index.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        admin_session
func main() {
	Execute()
}
