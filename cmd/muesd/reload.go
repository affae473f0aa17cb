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
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var reloadCommandsCmd = &cobra.Command{
	Use:   "reload-commands",
	Short: "Ask a running server to rescan its .cmd directories",
	Args:  cobra.NoArgs,
	RunE:  runReloadCommands,
}

func init() {
	reloadCommandsCmd.Flags().StringVar(&flagAdminSocket, "admin-socket", "/var/run/muesd/admin.sock", "Unix socket path the server's admin endpoint listens on")
}

func runReloadCommands(cmd *cobra.Command, args []string) error {
	conn, err := net.DialTimeout("unix", flagAdminSocket, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connecting to admin endpoint %s: %w", flagAdminSocket, err)
	}
	defer conn.Close()

	if _, err := fmt.Fprint(conn, "reload\n"); err != nil {
		return fmt.Errorf("sending reload request: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading reload response: %w", err)
	}
	reply = strings.TrimRight(reply, "\r\n")

	if strings.HasPrefix(reply, "error:") {
		return fmt.Errorf("%s", reply)
	}
	fmt.Println(reply)
	return nil
}
