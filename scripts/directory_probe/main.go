// Command directory_probe fetches the external professor directory and
// prints the normalized listing. Useful when the upstream backend
// changes its wire shape: the probe fails loudly instead of letting the
// API silently degrade to an empty directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ids-upch/advisory-api/internal/repository"
	"github.com/ids-upch/advisory-api/pkg/config"
)

func main() {
	var (
		baseURL string
		timeout time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:3001", "Directory backend base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	repo := repository.NewDirectoryRepository(config.DirectoryConfig{
		BaseURL: baseURL,
		Timeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	professors, err := repo.FetchProfessors(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("directory fetch failed after %s: %v", elapsed, err)
	}

	fmt.Printf("Directory Probe Report (%s, %s)\n", baseURL, elapsed)
	fmt.Println("================================")
	missingNames := 0
	for _, p := range professors {
		name := p.Name
		if name == "" {
			name = "<missing name>"
			missingNames++
		}
		fmt.Printf("%-10s %-30s %-30s %s\n", p.ID, name, p.Email, p.Status)
	}
	fmt.Printf("Total: %d professors, %d without a usable name\n", len(professors), missingNames)

	if missingNames > 0 {
		os.Exit(1)
	}
}
