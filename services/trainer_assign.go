package services

import (
	"math/rand"

	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scoring weights for the assignment heuristic: trainers with fewer members
// and fewer remaining credits across those members are expected to free up
// soonest, so they score lowest and win new signups.
const (
	memberCountWeight = 3
	ptTotalWeight     = 7
)

type trainerLoad struct {
	TrainerID   uuid.UUID
	MemberCount int
	PtTotal     int
}

// AutoAssignTrainer picks the trainer for a newly registered member. If no
// trainer has any member yet the pick is uniformly random; otherwise the
// trainer(s) with the minimum load score are candidates and ties are broken
// uniformly at random.
func AutoAssignTrainer(tx *gorm.DB, rng *rand.Rand) (*models.Trainer, error) {
	var trainers []models.Trainer
	if err := tx.Find(&trainers).Error; err != nil {
		return nil, err
	}
	if len(trainers) == 0 {
		return nil, ErrNoTrainers
	}

	var rows []trainerLoad
	err := tx.Model(&models.Member{}).
		Select("trainer_id, COUNT(*) AS member_count, COALESCE(SUM(pt_count), 0) AS pt_total").
		Where("trainer_id IS NOT NULL AND is_deleted = ?", false).
		Group("trainer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &trainers[rng.Intn(len(trainers))], nil
	}

	loads := make(map[uuid.UUID]trainerLoad, len(rows))
	for _, row := range rows {
		loads[row.TrainerID] = row
	}

	minScore := -1
	var candidates []*models.Trainer
	for i := range trainers {
		load := loads[trainers[i].ID]
		score := load.MemberCount*memberCountWeight + load.PtTotal*ptTotalWeight
		switch {
		case minScore == -1 || score < minScore:
			minScore = score
			candidates = candidates[:0]
			candidates = append(candidates, &trainers[i])
		case score == minScore:
			candidates = append(candidates, &trainers[i])
		}
	}

	return candidates[rng.Intn(len(candidates))], nil
}
