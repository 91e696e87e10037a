package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/account"
)

// addAdmin creates an admin account. Admins are never self-registrable:
// this command is the only way to provision one besides the demo seeds.
func (cli *commandLine) addAdmin(uname, name, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname)
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	if !account.ValidUsername(uname) {
		return account.ErrInvalidUsername
	}
	if _, err := cli.acctRepo.GetAccountByUsername(ctx, uname); err == nil {
		return account.ErrUsernameExists
	} else if pkgerrors.Cause(err) != account.ErrNotFound {
		return err
	}

	digest, err := cli.hasher.Hash(pwd)
	if err != nil {
		return pkgerrors.Wrap(err, "hashing password")
	}

	acct, err := cli.acctRepo.CreateAccount(ctx, account.Account{
		ID:             uuid.New().String(),
		Username:       uname,
		FullName:       name,
		Email:          email,
		Role:           account.RoleAdmin,
		PasswordDigest: digest,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	logger.Printf("created admin account %q (%s)", acct.Username, acct.ID)
	return nil
}
