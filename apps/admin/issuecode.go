package main

import (
	"context"

	"github.com/kelasku/jurnalkelas/core/authcode"
)

func (cli *commandLine) issueCode(code, issuer string) error {
	issued, err := cli.codeSvc.Issue(context.Background(), authcode.NewCode{
		Code:     code,
		IssuedBy: issuer,
	})
	if err != nil {
		return err
	}
	logger.Printf("issued code %q (issuer: %s)", issued.Code, issued.IssuedBy)
	return nil
}
