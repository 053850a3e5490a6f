package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"courses/internal/items"
)

func printJSON(cmd *cobra.Command, payload any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func newListsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Affiche toutes les listes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			lists, err := client.lists()
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, lists)
			}

			rows := make([][]string, 0, len(lists))
			for _, list := range lists {
				archived := ""
				if list.Archived {
					archived = "oui"
				}
				rows = append(rows, []string{
					list.Name,
					strconv.Itoa(list.ItemsChecked) + "/" + strconv.Itoa(list.ItemsCount),
					archived,
					list.ID,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Nom", "Coché", "Archivée", "Identifiant"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create [nom]",
		Short: "Crée une nouvelle liste",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			list, err := client.createList(name)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, list)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Liste %q créée (%s)\n", list.Name, list.ID)
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <liste>",
		Short: "Affiche une liste, rayon par rayon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			detail, err := client.listDetail(args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, detail)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", detail.Name)
			for _, section := range detail.Sections {
				fmt.Fprintf(out, "\n%s\n", section.Label)
				rows := make([][]string, 0, len(section.Items))
				for _, item := range section.Items {
					mark := " "
					if item.Checked {
						mark = "x"
					}
					rows = append(rows, []string{"[" + mark + "]", item.Name, item.Quantity, item.Notes})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"", "Article", "Quantité", "Notes"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
			}
			return nil
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <liste>",
		Short: "Supprime une liste",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.deleteList(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Liste supprimée.")
			return nil
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		quantity string
		notes    string
		section  string
	)
	cmd := &cobra.Command{
		Use:   "add <liste> <article...>",
		Short: "Ajoute un article à une liste",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			item, err := client.createItem(args[0], items.ItemInput{
				Name:        strings.Join(args[1:], " "),
				Quantity:    quantity,
				Notes:       notes,
				SectionSlug: section,
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ajouté dans %s\n", item.Name, item.SectionLabel)
			return nil
		},
	}
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "", "Quantité de l'article")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Notes libres")
	cmd.Flags().StringVarP(&section, "section", "s", "", "Slug du rayon (sinon classement automatique)")
	return cmd
}

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe <liste>",
		Short: "Fusionne les doublons d'une liste",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			result, err := client.deduplicate(args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d doublon(s) fusionné(s)\n", result.Removed)
			return nil
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <liste> [fichier]",
		Short: "Importe une liste en texte libre (fichier ou entrée standard)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}

			var data []byte
			if len(args) == 2 && args[1] != "-" {
				data, err = os.ReadFile(args[1])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			result, err := client.importText(args[0], string(data))
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d article(s) importé(s)\n", result.Created)
			return nil
		},
	}
}
