package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lakegov/lakegov/internal/policy"
	"github.com/lakegov/lakegov/internal/store"
)

func newPolicyCommand() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Publish the data lake security policy to the security zone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			objects, err := store.NewMinioStore(cfg.Store)
			if err != nil {
				return err
			}
			publisher := policy.NewPublisher(objects, cfg.Zones.Security, logger)

			if show {
				p, err := publisher.Load(cmd.Context())
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(p)
				if err != nil {
					return err
				}
				_, _ = cmd.OutOrStdout().Write(data)
				return nil
			}

			if err := publisher.Publish(cmd.Context(), policy.Default(cfg.Zones)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Security policy published to %s/%s\n", cfg.Zones.Security, policy.PolicyKey)
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the currently published policy instead of publishing")
	return cmd
}
