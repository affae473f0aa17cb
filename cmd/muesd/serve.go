/*
 * MIT License
 *
 * Copyright (c) 2026 The Mues Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/nabbar/mues/auth"
	"github.com/nabbar/mues/command"
	"github.com/nabbar/mues/config"
	"github.com/nabbar/mues/console"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filters"
	"github.com/nabbar/mues/login"
	"github.com/nabbar/mues/mueslog"
	"github.com/nabbar/mues/registry"
	"github.com/nabbar/mues/shell"
	"github.com/nabbar/mues/socket/telnet"
	"github.com/nabbar/mues/stream"
	"github.com/nabbar/mues/user"
)

var (
	flagListen      string
	flagCommandPath []string
	flagAdminSocket string
	flagVerbose     bool
	flagConsole     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the listener, scheduler and command registry",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "override the configured TCP listen address")
	serveCmd.Flags().StringSliceVar(&flagCommandPath, "command-path", nil, "override the configured .cmd directories")
	serveCmd.Flags().StringVar(&flagAdminSocket, "admin-socket", "/var/run/muesd/admin.sock", "Unix socket path for reload-commands")
	serveCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "log at debug level")
	serveCmd.Flags().BoolVar(&flagConsole, "console", false, "also attach an operator shell to stdin/stdout, logged in as admin")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if flagListen != "" {
		cfg.ListenAddr = flagListen
	}
	if len(flagCommandPath) > 0 {
		cfg.CommandPath = flagCommandPath
	}

	lvl := logrus.InfoLevel
	if flagVerbose {
		lvl = logrus.DebugLevel
	}
	log := mueslog.New(os.Stderr, lvl)

	reg := registry.New(cfg.CommandPath, commandBuilder(), cfg.ReloadInterval, log)
	if err := reg.Rebuild(); err != nil {
		log.Error("initial command registry scan failed", mueslog.F("error", err.Error()))
	}
	reg.StartScheduledReload()
	defer reg.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := listenTCPReusable(ctx, cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.ListenAddr, err)
	}
	log.Info("listening", mueslog.F("addr", cfg.ListenAddr))

	adminLn, err := listenAdmin(flagAdminSocket, reg, log)
	if err != nil {
		log.Warn("admin endpoint disabled", mueslog.F("error", err.Error()))
	} else {
		defer adminLn.Close()
	}

	go acceptLoop(ctx, ln, cfg, reg, log)

	if flagConsole {
		attachConsole(cfg, reg, log)
	}

	<-ctx.Done()
	log.Info("shutting down", mueslog.F("reason", "signal"))
	_ = ln.Close()
	return nil
}

// listenTCPReusable binds the listen address with SO_REUSEADDR set, so a
// restarted daemon does not have to wait out the previous socket's TIME_WAIT.
func listenTCPReusable(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}

func acceptLoop(ctx context.Context, ln net.Listener, cfg *config.Config, reg *registry.Registry, log mueslog.Logger) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				log.Error("accept failed", mueslog.F("error", err.Error()))
				continue
			}
		}
		go handleConnection(conn, cfg, reg, log)
	}
}

// handleConnection wires one accepted socket into a fresh stream: the
// terminal catch-alls, a TELNET-negotiating transport filter, and a login
// filter that, on success, installs the command shell bound to the shared
// registry.
func handleConnection(conn net.Conn, cfg *config.Config, reg *registry.Registry, log mueslog.Logger) {
	id := uuid.NewString()
	s := stream.New(id, log)

	s.AddFilters(
		filters.NewDefaultInput(nil, log),
		filters.NewDefaultOutput(cfg.HistorySize, log),
	)
	s.AddFilters(telnet.NewFilter(500, conn, log))

	installShell := func(u user.User) {
		sh := shell.NewFilter(300, cfg.CommandPrefix, u, reg, log)
		s.AddFilters(sh)
	}

	authn := auth.Func(func(req event.LoginAuthEvent) {
		// No external account backend is wired into this build: every
		// presented credential pair is accepted as a Player.
		req.Success(user.New(req.Username, user.Player))
	})

	s.AddFilters(login.New(400, authn, cfg.LoginMaxTries, cfg.LoginTimeout, installShell, log))
}

// attachConsole wires the host process's own stdin/stdout into a second,
// singleton stream (C5) bound directly to an admin shell: unlike a network
// connection, the operator at the console is already trusted, so no login
// filter sits in front of it.
func attachConsole(cfg *config.Config, reg *registry.Registry, log mueslog.Logger) {
	s := stream.New("console", log)

	s.AddFilters(
		filters.NewDefaultInput(nil, log),
		filters.NewDefaultOutput(cfg.HistorySize, log),
	)
	s.AddFilters(console.NewStdio(500, log))
	s.AddFilters(shell.NewFilter(300, cfg.CommandPrefix, user.New("console", user.Admin), reg, log))
}

// commandBuilder turns a parsed .cmd definition into the body the shell
// runs: for this build a definition's code section is treated as literal
// text to print, since no embedded scripting language is in scope.
func commandBuilder() registry.Builder {
	return func(def *registry.Definition) command.Fn {
		return func(ctx command.Context, out, errw io.Writer, args []string) []event.Event {
			fmt.Fprint(out, def.Code)
			return nil
		}
	}
}

func listenAdmin(path string, reg *registry.Registry, log mueslog.Logger) (net.Listener, error) {
	if path == "" {
		return nil, fmt.Errorf("empty admin socket path")
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveAdminConn(conn, reg, log)
		}
	}()
	return ln, nil
}

func serveAdminConn(conn net.Conn, reg *registry.Registry, log mueslog.Logger) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil {
		return
	}
	switch line {
	case "reload\n", "reload\r\n":
		if err := reg.Rebuild(); err != nil {
			fmt.Fprintf(conn, "error: %s\n", err)
			return
		}
		fmt.Fprintf(conn, "ok: %d commands\n", len(reg.AvailableTo(user.Admin)))
	default:
		fmt.Fprintf(conn, "error: unknown request %q\n", line)
	}
}
