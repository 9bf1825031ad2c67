// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/zotwatcher/internal/embed"
	"github.com/pdiddy/zotwatcher/internal/profile"
	"github.com/pdiddy/zotwatcher/internal/zotero"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build and inspect the relevance profile",
}

var profileBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch the Zotero library and build the profile",
	Long: `Build fetches every document item from the configured Zotero library,
embeds each one, and writes the profile store: the vector index, aggregate
statistics, and the item snapshot. An existing profile is replaced.`,
	RunE: runProfileBuild,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print profile statistics and stored items",
	RunE:  runProfileShow,
}

func init() {
	profileShowCmd.Flags().Int("top", 10, "number of top authors/venues/tags to print")
	profileShowCmd.Flags().Int("items", 0, "list the first N stored reference items")

	profileCmd.AddCommand(profileBuildCmd)
	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileBuild(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	ctx := cmd.Context()

	client, err := zotero.NewClient(cfg.Zotero)
	if err != nil {
		return err
	}

	fmt.Println("Fetching Zotero library...")
	documents, err := client.FetchItems(ctx, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Fetched %d documents\n", len(documents))

	provider, err := newProvider(cfg.Embedding)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(documents)), "embedding")
	tracked := &progressProvider{
		inner:     provider,
		batchSize: cfg.Embedding.BatchSize,
		bar:       bar,
	}

	prof, err := profile.Build(ctx, documents, tracked)
	if err != nil {
		return err
	}

	if err := profile.Save(prof, documents, cfg.Profile.DataDir); err != nil {
		return err
	}

	fmt.Printf("Profile built: %d vectors (dimension %d) in %s\n",
		prof.Index.Count(), prof.Index.Dimension(), cfg.Profile.DataDir)
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	top, _ := cmd.Flags().GetInt("top")
	items, _ := cmd.Flags().GetInt("items")

	return showProfile(os.Stdout, cfg.Profile.DataDir, top, items)
}

func showProfile(w io.Writer, dataDir string, top, items int) error {
	prof, err := profile.Load(dataDir, 0)
	if err != nil {
		return err
	}
	if prof.Stats.ItemCount == 0 && prof.Index.Count() == 0 {
		return fmt.Errorf("no profile found in %s: run \"zotwatcher profile build\" first", dataDir)
	}

	fmt.Fprintf(w, "Items:   %d\n", prof.Stats.ItemCount)
	fmt.Fprintf(w, "Vectors: %d (dimension %d)\n", prof.Index.Count(), prof.Index.Dimension())

	printFrequencies(w, "Top authors", prof.Stats.TopAuthors, top)
	printFrequencies(w, "Top venues", prof.Stats.TopVenues, top)
	printFrequencies(w, "Top tags", prof.Stats.TopTags, top)

	if items > 0 {
		documents, err := profile.LoadDocuments(dataDir, items)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nStored items:\n")
		for _, doc := range documents {
			line := doc.Title
			if doc.Venue != "" {
				line += " (" + doc.Venue + ")"
			}
			fmt.Fprintf(w, "  %s  %s\n", doc.Key, line)
		}
	}
	return nil
}

func printFrequencies(w io.Writer, label string, entries []types.FrequencyCount, n int) {
	if len(entries) == 0 {
		return
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	fmt.Fprintf(w, "\n%s:\n", label)
	for _, e := range entries {
		fmt.Fprintf(w, "  %4d  %s\n", e.Count, e.Name)
	}
}

// progressProvider wraps an embedding provider and advances a progress
// bar as batches complete. It chunks the input itself so progress ticks
// per batch rather than once at the end.
type progressProvider struct {
	inner     embed.Provider
	batchSize int
	bar       *progressbar.ProgressBar
}

func (p *progressProvider) Dimension() int { return p.inner.Dimension() }

func (p *progressProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := p.batchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := p.inner.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
		p.bar.Add(end - start)
	}
	return vectors, nil
}
