package cmd

import (
	"github.com/spf13/cobra"
)

const banner = `  __ _         _ _
 / _(_)_ _  __| | |__ _ _ _ _
|  _| | ' \/ _  | '_ \ '_| '_|
|_| |_|_||_\__,_|_.__/_| |_|  `

var rootCmd = &cobra.Command{
	Use:   "findbrr",
	Short: "A tool to find torrent data and relink it into place",
	Long: banner + `

findbrr locates the files a torrent expects inside arbitrary directory
trees and links them into the torrent's own layout without copying data.`,
}

func Execute() error {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = false

	rootCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}} [command]

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`)

	return rootCmd.Execute()
}
