package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmanager/web/cmd/server/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskmanager",
		Short: "Task Manager web server",
		Long:  `Task Manager is a multi-user to-do web application with server-rendered pages backed by PostgreSQL.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
