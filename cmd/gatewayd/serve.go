/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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
 *
 *
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emqx/neuron-sub004/gwconfig"
	"github.com/emqx/neuron-sub004/gwlog"
	"github.com/emqx/neuron-sub004/metrics"
	"github.com/emqx/neuron-sub004/mqttclient"
	"github.com/emqx/neuron-sub004/reactor"
	"github.com/emqx/neuron-sub004/scheduler"
	"github.com/emqx/neuron-sub004/store"
)

func parseLevel(s string) gwlog.Level {
	switch s {
	case "debug":
		return gwlog.DebugLevel
	case "warn":
		return gwlog.WarnLevel
	case "error":
		return gwlog.ErrorLevel
	case "fatal":
		return gwlog.FatalLevel
	default:
		return gwlog.InfoLevel
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway core: reactor, scheduler, MQTT client, store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgFile)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := gwconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := gwlog.New(parseLevel(cfg.Log.Level), os.Stderr)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rct, err := reactor.New(log)
	if err != nil {
		return fmt.Errorf("start reactor: %w", err)
	}
	defer rct.Close()

	mtr := metrics.New()
	sched := scheduler.New(rct, mtr, log)

	mc, err := mqttclient.New(cfg.MQTT, log)
	if err != nil {
		return fmt.Errorf("build mqtt client: %w", err)
	}
	if err := mc.Open(); err != nil {
		return fmt.Errorf("open mqtt client: %w", err)
	}
	defer mc.Close()

	if err := bootstrapGateway(cfg, st, sched, mc, log); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	log.Info("gatewayd running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("gatewayd shutting down")
	return nil
}
