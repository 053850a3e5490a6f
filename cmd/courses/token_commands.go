package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"courses/internal/store"
)

// Token management talks to the database directly; the REST surface never
// exposes token secrets.
func newTokenCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Gère les jetons d'accès",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newTokenCreateCommand(ctx))
	cmd.AddCommand(newTokenListCommand(ctx))
	cmd.AddCommand(newTokenRevokeCommand(ctx))
	return cmd
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

func newTokenCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <libellé>",
		Short: "Crée un jeton et affiche son secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			token, err := st.CreateAccessToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, map[string]any{
					"id":    token.ID,
					"label": token.Label,
					"token": token.Token,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Jeton %q créé:\n%s\n", token.Label, token.Token)
			return nil
		},
	}
}

func newTokenListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Affiche les jetons existants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			tokens, err := st.AccessTokens(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, tokens)
			}

			rows := make([][]string, 0, len(tokens))
			for _, token := range tokens {
				state := "actif"
				if token.Revoked {
					state = "révoqué"
				}
				rows = append(rows, []string{
					strconv.FormatInt(token.ID, 10),
					token.Label,
					state,
					token.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Libellé", "État", "Créé le"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newTokenRevokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <id>",
		Short: "Révoque un jeton (les connexions déjà ouvertes restent actives)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("identifiant de jeton invalide: %q", args[0])
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			revoked, err := st.RevokeAccessToken(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !revoked {
				return fmt.Errorf("jeton %d introuvable", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Jeton révoqué.")
			return nil
		},
	}
}
