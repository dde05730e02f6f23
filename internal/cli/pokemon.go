package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ignite/pokedex/internal/service/pokemon"
)

func createCmd(a *app) *cobra.Command {
	var req pokemon.CreateRequest

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a pokemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd.Context(), func(svc *pokemon.Service) error {
				resp, err := svc.Create(cmd.Context(), req)
				if err != nil {
					return useCaseError(err)
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}

	c.Flags().IntVarP(&req.Number, "number", "n", 0, "Dex number (required)")
	c.Flags().StringVar(&req.Name, "name", "", "Name (required)")
	c.Flags().StringSliceVarP(&req.Types, "type", "t", nil, "Type, repeat or comma-separate for several (required)")

	_ = c.MarkFlagRequired("number")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("type")
	return c
}

func fetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <number>",
		Short: "Show one pokemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseNumberArg(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(svc *pokemon.Service) error {
				resp, err := svc.FetchOne(cmd.Context(), number)
				if err != nil {
					return useCaseError(err)
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every pokemon ordered by number",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd.Context(), func(svc *pokemon.Service) error {
				resp, err := svc.FetchAll(cmd.Context())
				if err != nil {
					return useCaseError(err)
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <number>",
		Aliases: []string{"rm"},
		Short:   "Delete one pokemon",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseNumberArg(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(svc *pokemon.Service) error {
				if err := svc.Delete(cmd.Context(), number); err != nil {
					return useCaseError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", number)
				return nil
			})
		},
	}
}

func parseNumberArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: number must be an integer, got %q", pokemon.KindBadRequest, s)
	}
	return n, nil
}
