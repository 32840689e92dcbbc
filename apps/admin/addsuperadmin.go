package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/user"
)

// addSuperAdmin creates a ministry admin account, or promotes an existing
// account registered under the email.
func (cli *commandLine) addSuperAdmin(name, email string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		_, err = cli.usrRepo.CreateUser(user.User{
			ID:            uuid.New().String(),
			Name:          name,
			Email:         email,
			Role:          user.RoleSuperAdmin,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		return err
	}

	usr.Name = name
	usr.Role = user.RoleSuperAdmin
	usr.EmailVerified = true
	usr.UpdatedAt = now
	_, err = cli.usrRepo.UpdateUser(usr)
	return err
}
