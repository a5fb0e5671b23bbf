package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/handler"
	"github.com/russofg/event-chaos-sub000/pkg/service"
)

func newContentCmd() *cobra.Command {
	var path string

	c := &cobra.Command{
		Use:   "content",
		Short: "Content table commands",
	}
	c.PersistentFlags().StringVar(&path, "file", "", "content YAML (defaults to the embedded tables)")

	c.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check a content file for broken references",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := content.LoadOrDefault(path)
			if err != nil {
				return err
			}
			if err := tables.Validate(); err != nil {
				danger.Fprintln(cmd.OutOrStdout(), "content is invalid")
				return err
			}
			success.Fprintf(cmd.OutOrStdout(), "content ok: %d scenarios, %d events, %d missions, %d upgrades\n",
				len(tables.Scenarios), len(tables.Events), len(tables.Missions), len(tables.Upgrades))
			return nil
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "scenarios",
		Short: "List scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := content.LoadOrDefault(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			accent.Fprintln(out, "\n== SCENARIOS ==")
			fmt.Fprintf(out, "%-18s %-24s %8s %8s\n", "ID", "TITLE", "LENGTH", "BUDGET")
			for _, id := range tables.ScenarioIDs() {
				s, _ := tables.Scenario(id)
				fmt.Fprintf(out, "%-18s %-24s %8s %8.0f\n", s.ID, truncate(s.Title, 24), s.Duration, s.InitialBudget)
			}
			fmt.Fprintln(out)
			return nil
		},
	})
	return c
}

type storeFlags struct {
	sqlitePath string
	redisAddr  string
}

func (f *storeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite", "", "read from this SQLite file")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "read from this Redis address")
}

func (f *storeFlags) open(ctx context.Context) (service.Store, error) {
	switch {
	case f.sqlitePath != "" && f.redisAddr != "":
		return nil, fmt.Errorf("--sqlite and --redis are exclusive")
	case f.sqlitePath != "":
		return service.OpenSQLiteStore(f.sqlitePath, career.Known{})
	case f.redisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: f.redisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect to Redis at %s: %w", f.redisAddr, err)
		}
		return service.NewRedisStore(client, service.RedisStoreConfig{}), nil
	default:
		return nil, fmt.Errorf("one of --sqlite or --redis is required")
	}
}

func newCareerCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "career",
		Short: "Career commands",
	}

	var show storeFlags
	showCmd := &cobra.Command{
		Use:   "show <player-id>",
		Short: "Print a stored career",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := show.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.LoadCareer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderCareer(cmd.OutOrStdout(), args[0], data)
			return nil
		},
	}
	show.bind(showCmd)

	c.AddCommand(showCmd)
	return c
}

func newLeaderboardCmd() *cobra.Command {
	var (
		addr  string
		limit int
		local storeFlags
	)

	cmd := &cobra.Command{
		Use:   "leaderboard <scenario-id>",
		Short: "Print the best scores of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			scenarioID := args[0]
			if local.sqlitePath != "" || local.redisAddr != "" {
				store, err := local.open(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				entries, err := store.TopScores(ctx, scenarioID, limit)
				if err != nil {
					return err
				}
				renderLeaderboard(cmd.OutOrStdout(), scenarioID, entries)
				return nil
			}

			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return err
			}
			defer conn.Close()

			resp, err := handler.NewDirectorClient(conn).GetLeaderboard(ctx, &handler.GetLeaderboardRequest{
				ScenarioID: scenarioID,
				Limit:      limit,
			})
			if err != nil {
				return err
			}
			renderLeaderboard(cmd.OutOrStdout(), scenarioID, resp.Entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultDirectorAddr(), "director gRPC address")
	cmd.Flags().IntVarP(&limit, "limit", "n", handler.DefaultLeaderboardSize, "rows to show")
	local.bind(cmd)
	return cmd
}

// defaultDirectorAddr honours DIRECTOR_ADDR, then a local GRPC_PORT.
func defaultDirectorAddr() string {
	return common.GetEnv("DIRECTOR_ADDR", fmt.Sprintf("localhost:%d", common.GetEnvInt("GRPC_PORT", 6565)))
}
