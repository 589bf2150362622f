// Command syncctl runs football sync operations without going through the
// HTTP API.
//
// Usage:
//
//	syncctl league --name "Premier League" --country England
//	syncctl teams 1
//	syncctl matches 1
//	syncctl all --workers 4
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/football-api/internal/app"
	"github.com/riskibarqy/football-api/internal/config"
	"github.com/riskibarqy/football-api/internal/observability"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/riskibarqy/football-api/internal/usecase"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "syncctl",
		Short:         "Football data sync CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(leagueCmd())
	root.AddCommand(teamsCmd())
	root.AddCommand(matchesCmd())
	root.AddCommand(allCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "syncctl: %v\n", err)
		os.Exit(1)
	}
}

func leagueCmd() *cobra.Command {
	var name, country string
	cmd := &cobra.Command{
		Use:   "league",
		Short: "Import one league from the provider catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, rt *app.Runtime) (any, error) {
				result, err := rt.SyncService.SyncLeague(ctx, usecase.SyncLeagueInput{
					LeagueName:    name,
					LeagueCountry: country,
				})
				if err != nil {
					return nil, err
				}
				return leagueOutput{
					ID:      result.League.ID,
					Name:    result.League.Name,
					Country: result.League.Country,
					RunID:   result.RunID,
				}, nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "League name as listed by the provider")
	cmd.Flags().StringVar(&country, "country", "", "League country as listed by the provider")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func teamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams <league-id>",
		Short: "Import teams and squads of a stored league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID, err := parseLeagueID(args[0])
			if err != nil {
				return err
			}
			return runSync(func(ctx context.Context, rt *app.Runtime) (any, error) {
				return rt.SyncService.SyncTeamsAndPlayers(ctx, leagueID)
			})
		},
	}
}

func matchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matches <league-id>",
		Short: "Import the season's matches of a stored league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID, err := parseLeagueID(args[0])
			if err != nil {
				return err
			}
			return runSync(func(ctx context.Context, rt *app.Runtime) (any, error) {
				return rt.SyncService.SyncMatches(ctx, leagueID)
			})
		},
	}
}

func allCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Refresh teams, players and matches of every stored league",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, rt *app.Runtime) (any, error) {
				return syncAll(ctx, rt, workers)
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 2, "Leagues synced concurrently")
	return cmd
}

type leagueOutput struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	RunID   string `json:"runId"`
}

type leagueSyncOutput struct {
	LeagueID int64                      `json:"leagueId"`
	Teams    *usecase.SyncTeamsResult   `json:"teams,omitempty"`
	Matches  *usecase.SyncMatchesResult `json:"matches,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

// syncAll runs teams then matches per league. A failing league is reported
// in the output and does not stop the others.
func syncAll(ctx context.Context, rt *app.Runtime, workers int) ([]leagueSyncOutput, error) {
	leagues, err := rt.Leagues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	if workers <= 0 {
		workers = 1
	}

	outputs := make([]leagueSyncOutput, len(leagues))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for i, lg := range leagues {
		p.Go(func(ctx context.Context) error {
			out := leagueSyncOutput{LeagueID: lg.ID}
			teams, err := rt.SyncService.SyncTeamsAndPlayers(ctx, lg.ID)
			if err != nil {
				out.Error = err.Error()
			} else {
				out.Teams = &teams
				matches, err := rt.SyncService.SyncMatches(ctx, lg.ID)
				if err != nil {
					out.Error = err.Error()
				} else {
					out.Matches = &matches
				}
			}
			outputs[i] = out
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func runSync(fn func(ctx context.Context, rt *app.Runtime) (any, error)) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLogger, err := observability.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logging.SetDefault(logger)
	defer func() {
		if closeErr := closeLogger(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = usecase.WithSyncTrigger(ctx, usecase.SyncTriggerCLI)

	rt, err := app.NewRuntime(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil {
			logger.Warn("close runtime failed", "error", closeErr)
		}
	}()

	result, err := fn(ctx, rt)
	if err != nil {
		return err
	}

	raw, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}

func parseLeagueID(raw string) (int64, error) {
	leagueID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || leagueID <= 0 {
		return 0, fmt.Errorf("invalid league id %q", raw)
	}
	return leagueID, nil
}
