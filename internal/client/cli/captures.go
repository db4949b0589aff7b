package cli

import (
	"fmt"
	"text/tabwriter"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/fishlog/internal/models"
)

const captureTemplate = `
=== Fish Capture Details ===

ID:       {{ .ID }}
Fish:     {{ .FishType }}
Weight:   {{ printf "%.2f" .Weight }} kg
Date:     {{ .CaptureData }}
{{- if .Location }}
Location: {{ .Location }}
{{- end }}
Owner ID: {{ .UserID }}
{{- if .CreatedAt }}
Created:  {{ .CreatedAt }}
{{- end }}
`

var captureTmpl = template.Must(template.New("capture").Parse(captureTemplate))

func (c *Cli) capturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "captures",
		Short: "Browse and edit fish captures",
	}
	cmd.AddCommand(
		c.capturesListCommand(),
		c.capturesShowCommand(),
		c.capturesCreateCommand(),
		c.capturesUpdateCommand(),
		c.capturesDeleteCommand(),
	)
	return cmd
}

func (c *Cli) capturesListCommand() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List captures, optionally of one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			var captures []models.FishCapture
			if username != "" {
				captures, err = a.Client.ListCapturesByUser(cmd.Context(), username)
			} else {
				captures, err = a.Client.ListCaptures(cmd.Context())
			}
			if err != nil {
				return err
			}

			if len(captures) == 0 {
				c.io.Println("No captures found.")
				return nil
			}

			w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFISH\tWEIGHT\tDATE\tLOCATION")
			for _, capture := range captures {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n",
					capture.ID, capture.FishType, capture.Weight, capture.CaptureData, capture.Location)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "show only captures of this user")

	return cmd
}

func (c *Cli) capturesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			capture, err := a.Client.GetCapture(cmd.Context(), id)
			if err != nil {
				return err
			}
			return captureTmpl.Execute(c.io, capture)
		},
	}
}

// captureFlags - поля улова, которые задаются флагами create и update
type captureFlags struct {
	fishType string
	date     string
	location string
	weight   float64
}

func (f *captureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fishType, "fish-type", "", "fish species")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "weight in kg")
	cmd.Flags().StringVar(&f.date, "date", "", "capture date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.location, "location", "", "where the fish was caught")
}

// apply переносит в capture только явно заданные флаги
func (f *captureFlags) apply(cmd *cobra.Command, capture *models.FishCapture) error {
	flags := cmd.Flags()
	if flags.Changed("fish-type") {
		capture.FishType = f.fishType
	}
	if flags.Changed("weight") {
		if f.weight < 0 {
			return fmt.Errorf("weight must not be negative")
		}
		capture.Weight = f.weight
	}
	if flags.Changed("date") {
		if _, err := time.Parse(time.DateOnly, f.date); err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", f.date)
		}
		capture.CaptureData = f.date
	}
	if flags.Changed("location") {
		capture.Location = f.location
	}
	return nil
}

func (c *Cli) capturesCreateCommand() *cobra.Command {
	var fields captureFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Log a new capture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			capture := models.FishCapture{CaptureData: time.Now().Format(time.DateOnly)}
			if err := fields.apply(cmd, &capture); err != nil {
				return err
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			created, err := a.Client.CreateCapture(cmd.Context(), capture)
			if err != nil {
				return err
			}
			c.io.Printf("✓ Capture %d created\n", created.ID)
			return nil
		},
	}
	fields.register(cmd)
	_ = cmd.MarkFlagRequired("fish-type")

	return cmd
}

func (c *Cli) capturesUpdateCommand() *cobra.Command {
	var fields captureFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an existing capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			// PUT заменяет запись целиком, поэтому начинаем с текущей версии
			capture, err := a.Client.GetCapture(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := fields.apply(cmd, capture); err != nil {
				return err
			}

			updated, err := a.Client.UpdateCapture(cmd.Context(), *capture)
			if err != nil {
				return err
			}
			c.io.Printf("✓ Capture %d updated\n", updated.ID)
			return nil
		},
	}
	fields.register(cmd)

	return cmd
}

func (c *Cli) capturesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			if err := a.Client.DeleteCapture(cmd.Context(), id); err != nil {
				return err
			}
			c.io.Printf("✓ Capture %d deleted\n", id)
			return nil
		},
	}
}
