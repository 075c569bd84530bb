package services

import (
	"fmt"

	"github.com/yeremiapane/facilities-app/models"
)

// categoryWorkerMap fixes which trade a query category calls for.
// Categories without a dedicated trade fall through to GENERAL.
var categoryWorkerMap = map[string]string{
	models.CategoryElectrical:  models.WorkerElectrician,
	models.CategoryPlumbing:    models.WorkerPlumber,
	models.CategoryCarpentry:   models.WorkerCarpenter,
	models.CategoryNetwork:     models.WorkerNetwork,
	models.CategoryCleaning:    models.WorkerGeneral,
	models.CategoryMaintenance: models.WorkerGeneral,
	models.CategoryOther:       models.WorkerGeneral,
}

// RequiredWorkerType returns the worker type a category calls for,
// defaulting to GENERAL for unmapped categories.
func RequiredWorkerType(category string) string {
	if wt, ok := categoryWorkerMap[category]; ok {
		return wt
	}
	return models.WorkerGeneral
}

// IsEligible reports whether a worker may take a query of the given category.
// When the required type is GENERAL every worker qualifies; otherwise only an
// exact type match does. Note the asymmetry: a GENERAL worker does NOT qualify
// for e.g. a PLUMBING query. This matches the shipped admin console behavior.
func IsEligible(worker models.User, category string) bool {
	if worker.Role != models.RoleWorker || worker.WorkerType == nil {
		return false
	}
	required := RequiredWorkerType(category)
	return *worker.WorkerType == required || required == models.WorkerGeneral
}

// EligibleWorkers filters the candidate set for a category, preserving
// arrival order.
func EligibleWorkers(category string, workers []models.User) []models.User {
	eligible := make([]models.User, 0, len(workers))
	for _, w := range workers {
		if IsEligible(w, category) {
			eligible = append(eligible, w)
		}
	}
	return eligible
}

// ValidateAssignment checks that a user may be bound to a query:
// must hold the WORKER role and qualify for the query's category.
func ValidateAssignment(worker models.User, query models.Query) error {
	if worker.Role != models.RoleWorker {
		return fmt.Errorf("user %d is not a worker", worker.ID)
	}
	if !IsEligible(worker, query.Category) {
		required := RequiredWorkerType(query.Category)
		return fmt.Errorf("worker type mismatch: query category %s requires %s", query.Category, required)
	}
	return nil
}
