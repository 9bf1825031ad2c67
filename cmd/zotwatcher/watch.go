// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotwatcher/internal/profile"
	"github.com/pdiddy/zotwatcher/internal/report"
	"github.com/pdiddy/zotwatcher/internal/sources"
	"github.com/pdiddy/zotwatcher/internal/watch"
	"github.com/pdiddy/zotwatcher/internal/zotero"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Fetch recent papers, rank them, and write reports",
	Long: `Watch runs one full pass: fetch recent candidates from every enabled
source, deduplicate, score each against the profile, and rank. The ranked
list is written to the output directory as rss.xml, report.html, and
digest.yaml. With output.push_to_zotero enabled the list is also pushed
into the Zotero library.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Int("top-n", 0, "override the ranked list size")
	watchCmd.Flags().Bool("push", false, "push ranked candidates to Zotero")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	ctx := cmd.Context()

	if topN, _ := cmd.Flags().GetInt("top-n"); topN > 0 {
		cfg.Scoring.TopN = topN
	}
	if push, _ := cmd.Flags().GetBool("push"); push {
		cfg.Output.PushToZotero = true
	}

	provider, err := newProvider(cfg.Embedding)
	if err != nil {
		return err
	}

	prof, err := profile.Load(cfg.Profile.DataDir, provider.Dimension())
	if err != nil {
		return err
	}
	if prof.Index.Count() == 0 {
		fmt.Fprintln(os.Stderr, "warning: no profile found, semantic scores will be zero")
	}

	backends := enabledBackends(cfg.Sources, prof)
	output, err := watch.Run(ctx, backends, prof, provider, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if err := writeReports(cfg.Output.Dir, output); err != nil {
		return err
	}

	if cfg.Output.PushToZotero && len(output.Ranked) > 0 {
		client, err := zotero.NewClient(cfg.Zotero)
		if err != nil {
			return err
		}
		if err := client.PushCandidates(ctx, output.Ranked, os.Stdout); err != nil {
			return err
		}
	}

	if len(output.SourceErrors) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d source(s) failed\n", len(output.SourceErrors))
	}
	return nil
}

// enabledBackends assembles the source list from configuration. The
// top-journals source only joins when the profile has venue statistics.
func enabledBackends(cfg types.SourcesConfig, prof *profile.Profile) []sources.Source {
	client := &http.Client{Timeout: cfg.Timeout}

	var backends []sources.Source
	if cfg.Crossref.Enabled {
		backends = append(backends, &sources.CrossrefSource{Client: client})
	}
	if cfg.Arxiv.Enabled {
		backends = append(backends, &sources.ArxivSource{Client: client})
	}
	if cfg.Biorxiv.Enabled {
		backends = append(backends, &sources.RxivSource{Client: client, Server: "biorxiv"})
	}
	if cfg.Medrxiv.Enabled {
		backends = append(backends, &sources.RxivSource{Client: client, Server: "medrxiv"})
	}
	if cfg.TopJournals.Enabled && len(prof.Stats.TopVenues) > 0 {
		venues := make([]string, len(prof.Stats.TopVenues))
		for i, v := range prof.Stats.TopVenues {
			venues[i] = v.Name
		}
		backends = append(backends, &sources.TopJournalsSource{Client: client, Venues: venues})
	}
	return backends
}

func writeReports(dir string, output watch.Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := report.WriteRSS(filepath.Join(dir, "rss.xml"), output.Ranked); err != nil {
		return err
	}
	if err := report.WriteHTML(filepath.Join(dir, "report.html"), output.Ranked); err != nil {
		return err
	}
	if err := report.WriteDigest(filepath.Join(dir, "digest.yaml"),
		output.Ranked, output.Fetched, output.DupsRemoved, output.SourceErrors); err != nil {
		return err
	}

	fmt.Printf("Wrote rss.xml, report.html, digest.yaml to %s\n", dir)
	return nil
}
