package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/abhisek/mathapp/internal/app"
	"github.com/abhisek/mathapp/internal/client"
	"github.com/abhisek/mathapp/internal/config"
	"github.com/abhisek/mathapp/internal/learner"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/store"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practise lessons in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func runPlay(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := clientLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	remote := newClient(cfg)
	checkServer(cmd, remote, log)

	return app.Run(cmd.Context(), newLearner(remote, st, log))
}

func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Client.APIURL, client.WithTimeout(cfg.Client.Timeout))
}

// newLearner wires the learner service. Login state is kept in st so it
// survives restarts.
func newLearner(remote *client.Client, st *store.Store, log *logger.Logger) *learner.Service {
	seed := uint64(time.Now().UnixNano())
	asm := lessons.NewAssembler(rand.New(rand.NewPCG(seed, seed>>1)))
	return learner.NewService(remote, asm, st.SessionRepo(), log)
}

// checkServer warns about an incompatible server. An unreachable server is
// fine: the app works offline.
func checkServer(cmd *cobra.Command, remote *client.Client, log *logger.Logger) {
	res := remote.Health(cmd.Context())
	if !res.Ok() {
		log.Warn("server unreachable, starting offline", "error", res.Err())
		return
	}
	if err := client.CheckCompatible(res.Value().Version, version); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
		log.Warn("incompatible server", "error", err)
	}
}
