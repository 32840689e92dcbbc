package main

import (
	"fmt"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/user"
)

// approveSchool approves a pending school registration on behalf of the
// ministry admin account owning the given email.
func (cli *commandLine) approveSchool(schoolID, adminEmail string) error {
	admin, err := cli.usrRepo.GetUserByEmail(core.CleanString(adminEmail, true /* lower */))
	if err != nil {
		return err
	}
	if !admin.IsSuperAdmin() {
		return fmt.Errorf("%s is not a %s account", admin.Email, user.RoleSuperAdmin)
	}

	sch, err := cli.schoolSvc.Approve(admin.ID, schoolID)
	if err != nil {
		return err
	}
	logger.Printf("school %s (EIIN %s) approved", sch.Name, sch.EIIN)
	return nil
}
