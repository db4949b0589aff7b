package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *Cli) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse registered anglers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			users, err := a.Client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				c.io.Println("No users found.")
				return nil
			}

			w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tFULL NAME\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName, u.Email)
			}
			return w.Flush()
		},
	})
	return cmd
}
