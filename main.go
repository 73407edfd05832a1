// @title                       TELL Complaint API
// @version                     1.0
// @description                 Citizens file complaints, authorities resolve them, admins oversee the catalog.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Session token as "Bearer <token>".
package main

import "github.com/tell-platform/complaint-system/cmd"

func main() {
	cmd.Execute()
}
