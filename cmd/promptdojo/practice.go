package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/promptdojo/promptdojo/internal/practice"
)

func practiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run the offline practice backend",
		Long: "Serve the platform API locally from a built-in challenge catalog,\n" +
			"with in-memory accounts and canned AI generation. Point the client\n" +
			"at it with --api-url.",
		RunE: runPractice,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8000", "HTTP listen address")
	addCommonFlags(f)
	return cmd
}

func runPractice(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	srv := practice.NewServer(
		practice.WithLanguage(v.GetString("lang")),
		practice.WithRequestLogging(),
	)

	addr := v.GetString("addr")
	slog.Info("starting practice backend", "addr", addr, "lang", v.GetString("lang"))
	fmt.Printf("Practice backend listening on %s\n", addr)
	fmt.Println("In another terminal: promptdojo challenges --api-url http://localhost:8000")
	return http.ListenAndServe(addr, srv.Handler())
}
