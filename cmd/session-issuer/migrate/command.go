package migrate

import (
	"github.com/spf13/cobra"

	"github.com/gordonnow/session-issuer/internal/business"
	"github.com/gordonnow/session-issuer/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Session Issuer migrations",
		"Applies the users table migrations required by the sql identity provider",
		buildInfo,
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}
