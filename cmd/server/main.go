package main // entry point: the web server and its helper commands

import (
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "campus-map",
	Short: "Campus accessibility map and admin panel",
	Long:  `Serves the campus accessibility map and its admin panel in front of the locations API.`,
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Record moderation events into the moderation log",
	Long:  `Consumes comment.moderated events from RabbitMQ and stores them in MySQL.`,
	RunE:  runConsume,
}

var classifyCmd = &cobra.Command{
	Use:   "classify NAME",
	Short: "Print the marker style chosen for a location name",
	Args:  cobra.ExactArgs(1),
	Run:   runClassify,
}

func init() {
	rootCmd.AddCommand(serveCmd, consumeCmd, classifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
