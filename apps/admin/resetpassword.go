package main

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrSvc.SetPassword(uname, pwd)
	if err != nil {
		return err
	}
	logger.Printf("password reset for %q", usr.Username)
	return nil
}
