package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag string
		serverFlag string
		tokenFlag  string
		jsonFlag   bool
	)

	ctx := newCommandContext(&configFlag, &serverFlag, &tokenFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "courses",
		Short:         "Client en ligne de commande pour le serveur de listes de courses",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Chemin du fichier de configuration")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "URL du serveur (defaut: bind de la configuration)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Jeton d'acces (defaut: variable COURSES_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Sortie JSON brute")

	rootCmd.AddCommand(newListsCommand(ctx))
	rootCmd.AddCommand(newCreateCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newRemoveCommand(ctx))
	rootCmd.AddCommand(newAddCommand(ctx))
	rootCmd.AddCommand(newDedupeCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newTokenCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
