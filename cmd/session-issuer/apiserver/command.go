package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/gordonnow/session-issuer/internal/business"
	"github.com/gordonnow/session-issuer/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"Session Issuer API server",
		"Session Issuer API server hosts the authenticate-user, validate-cookies and jwks.json endpoints",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}
