/*
Copyright 2026 Coffer Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cofferfi/coffer"
	"github.com/cofferfi/coffer/config"
	"github.com/cofferfi/coffer/database"
	"github.com/cofferfi/coffer/internal/notification"
)

// CofferCLI represents the CLI application, encapsulating the root Cobra command.
type CofferCLI struct {
	cmd *cobra.Command
}

// cofferInstance holds the Coffer instance and its configuration so commands
// share one initialized ledger.
type cofferInstance struct {
	coffer *coffer.Coffer
	cnf    *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the Coffer instance before
// running any command. Rehydration happens here: a snapshot that breaks the
// vault's invariants stops the process before it serves a single request.
func preRun(app *cofferInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("coffer.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newCoffer, err := setupCoffer(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.coffer = newCoffer
		app.cnf = cnf

		return nil
	}
}

// setupCoffer connects the datasource and builds the ledger from it.
func setupCoffer(cfg *config.Configuration) (*coffer.Coffer, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newCoffer, err := coffer.NewCoffer(db)
	if err != nil {
		return nil, fmt.Errorf("error creating coffer: %v", err)
	}
	return newCoffer, nil
}

// NewCLI creates the command-line interface for the Coffer application.
func NewCLI() *CofferCLI {
	var configFile string
	instance := &cofferInstance{}

	var rootCmd = &cobra.Command{
		Use:   "coffer",
		Short: "Capped custodial vault ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./coffer.json", "Configuration file for the vault")

	rootCmd.PersistentPreRunE = preRun(instance)

	rootCmd.AddCommand(serverCommands(instance))
	rootCmd.AddCommand(workerCommands(instance))
	rootCmd.AddCommand(migrateCommands(instance))

	return &CofferCLI{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w CofferCLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
