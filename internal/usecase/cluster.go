package usecase

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tfidf/internal/adapter/cluster"
	"tfidf/internal/adapter/index"
	"tfidf/internal/domain"
)

// ClusterUseCase groups the documents of an index by topic.
type ClusterUseCase struct {
	index *index.Index
	log   *logrus.Entry
}

func NewClusterUseCase(ix *index.Index, log *logrus.Entry) *ClusterUseCase {
	if log == nil {
		log = logrus.WithField("component", "cluster")
	}
	return &ClusterUseCase{index: ix, log: log}
}

// ClusterResult is a finished clustering run.
type ClusterResult struct {
	Clusters   []domain.Cluster
	Iterations int
	Converged  bool
}

// Cluster runs k-means and labels each cluster with its topTerms heaviest
// centroid terms.
func (u *ClusterUseCase) Cluster(opts cluster.Options, topTerms int) (*ClusterResult, error) {
	assignment, err := cluster.KMeans(u.index, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster documents: %w", err)
	}
	if !assignment.Converged {
		u.log.WithField("iterations", assignment.Iterations).Warn("k-means stopped before converging")
	}

	members := assignment.Members()
	terms := assignment.TopTerms(u.index.Vocabulary(), topTerms)
	clusters := make([]domain.Cluster, len(members))
	for c := range members {
		clusters[c] = domain.Cluster{
			ID:       c,
			Members:  members[c],
			TopTerms: terms[c],
		}
	}

	return &ClusterResult{
		Clusters:   clusters,
		Iterations: assignment.Iterations,
		Converged:  assignment.Converged,
	}, nil
}
