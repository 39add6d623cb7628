package repository

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/glorpus-work/pxget/pkg/http"
)

var prideProjectPattern = regexp.MustCompile(`^P[RX]D[0-9]{6}`)

// ListProjects returns every public accession of the named repository.
func ListProjects(ctx context.Context, repo string, client http.Client) ([]string, error) {
	switch strings.ToLower(repo) {
	case "pride":
		return ListPrideProjects(ctx, client)
	case "massive":
		return ListMassiveProjects(ctx, client)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRepository, repo)
	}
}

func filterAccessions(all []string, keep func(string) bool) []string {
	out := make([]string, 0, len(all))
	for _, a := range all {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}
