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
	"log"

	"github.com/spf13/cobra"

	"github.com/cofferfi/coffer/config"
	"github.com/cofferfi/coffer/database"
)

// migrateCommands creates the vault schema. The statements are idempotent, so
// running migrate against an existing database is safe.
func migrateCommands(_ *cofferInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "create the coffer schema",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.Fetch()
			if err != nil {
				log.Fatal(err)
			}

			if _, err := database.GetDBConnection(cnf); err != nil {
				log.Fatalf("migration failed: %v", err)
			}
			log.Println("migration complete ✅")
		},
	}

	return cmd
}
