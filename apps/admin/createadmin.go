package main

import (
	"github.com/trezcool/shule/core/user"
)

// createAdmin provisions an admin account; the API refuses to create
// those so the command line is the only way in.
func (cli *commandLine) createAdmin(uname, email, fullName, pwd string) error {
	if fullName == "" {
		fullName = uname
	}
	data := user.NewUser{
		Username: uname,
		Email:    email,
		Password: pwd,
		Role:     user.RoleAdmin,
		FullName: fullName,
	}
	if err := data.Validate(cli.validate, cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(data)
	if err != nil {
		return err
	}
	logger.Printf("admin %q created", usr.Username)
	return nil
}
