// Command wordclass-fetch turns a list of HTML sources into the
// whitespace-tokenised, one-sentence-per-line corpus format the
// wordclass optimiser consumes. It never touches vocabulary, statistics,
// or class assignment — it is a standalone producer of the core's input,
// grounded on the teacher's cmd/download-hn fetch-and-flatten shape.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

func main() {
	var (
		sourcesPath = flag.String("sources", "", "Newline-delimited file of URLs, or a directory of local .html files (required)")
		out         = flag.String("out", "", "Output corpus path (default stdout)")
		concurrency = flag.Int("concurrency", 4, "Number of concurrent HTTP fetches")
	)
	flag.Parse()

	if *sourcesPath == "" {
		log.Fatal("--sources required")
	}

	sources, err := listSources(*sourcesPath)
	if err != nil {
		log.Fatalf("list sources: %v", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	results := fetchAll(sources, *concurrency)
	for _, sentences := range results {
		for _, line := range sentences {
			fmt.Fprintln(bw, line)
		}
	}
}

// listSources reads path as a newline-delimited URL list if it names a
// regular file, or globs *.html files if it names a directory.
func listSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return filepath.Glob(filepath.Join(path, "*.html"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sources []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			sources = append(sources, line)
		}
	}
	return sources, nil
}

// fetchAll retrieves every source with up to concurrency workers in
// flight, and returns one sentence slice per source in source order. A
// failed fetch logs and contributes no sentences, rather than aborting
// the run.
func fetchAll(sources []string, concurrency int) [][]string {
	results := make([][]string, len(sources))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, src string) {
			defer wg.Done()
			defer func() { <-sem }()

			body, err := read(src)
			if err != nil {
				log.Printf("fetch %s: %v", src, err)
				return
			}
			results[i] = toSentences(stripHTML(body))
		}(i, src)
	}
	wg.Wait()
	return results
}

func read(src string) (string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(src)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// stripHTML extracts visible text, grounded on the teacher's
// download-hn stripHTML: a depth-first walk collecting text nodes,
// skipping script/style content.
func stripHTML(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}

// toSentences splits plain text into newline-bounded sentences on
// sentence-final punctuation and collapses internal whitespace, so each
// resulting line is already in the whitespace-tokenised shape spec §6
// expects.
func toSentences(text string) []string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	raw := regexp.MustCompile(`[.!?]+\s*`).Split(text, -1)

	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
