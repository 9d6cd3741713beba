package services

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoAssignTrainerNoTrainers(t *testing.T) {
	db := newTestDB(t)
	rng := rand.New(rand.NewSource(1))

	_, err := AutoAssignTrainer(db, rng)
	assert.ErrorIs(t, err, ErrNoTrainers)
}

func TestAutoAssignTrainerUniformWhenNoMembers(t *testing.T) {
	db := newTestDB(t)
	rng := rand.New(rand.NewSource(42))

	trainerA := createTrainer(t, db, "Trainer A")
	trainerB := createTrainer(t, db, "Trainer B")
	trainerC := createTrainer(t, db, "Trainer C")

	picks := map[uuid.UUID]int{}
	for i := 0; i < 300; i++ {
		trainer, err := AutoAssignTrainer(db, rng)
		require.NoError(t, err)
		picks[trainer.ID]++
	}

	// Every trainer must be reachable when nobody has members yet.
	assert.Positive(t, picks[trainerA.ID])
	assert.Positive(t, picks[trainerB.ID])
	assert.Positive(t, picks[trainerC.ID])
}

func TestAutoAssignTrainerPrefersLowestScore(t *testing.T) {
	db := newTestDB(t)
	rng := rand.New(rand.NewSource(7))

	busy := createTrainer(t, db, "Busy")
	idle := createTrainer(t, db, "Idle")
	createMember(t, db, "Existing", &busy.ID, 30)

	// Busy scores 1*3 + 30*7, idle scores 0. Idle must win every time.
	for i := 0; i < 20; i++ {
		trainer, err := AutoAssignTrainer(db, rng)
		require.NoError(t, err)
		assert.Equal(t, idle.ID, trainer.ID)
	}
}

func TestAutoAssignTrainerCreditsOutweighMembers(t *testing.T) {
	db := newTestDB(t)
	rng := rand.New(rand.NewSource(7))

	manyMembers := createTrainer(t, db, "Many members")
	fewCredits := createTrainer(t, db, "Few credits")

	// Three nearly-finished members: 3*3 + 3*7 = 30.
	for i := 0; i < 3; i++ {
		createMember(t, db, "Finishing", &manyMembers.ID, 1)
	}
	// One fresh member: 1*3 + 30*7 = 213.
	createMember(t, db, "Fresh", &fewCredits.ID, 30)

	trainer, err := AutoAssignTrainer(db, rng)
	require.NoError(t, err)
	assert.Equal(t, manyMembers.ID, trainer.ID)
}

func TestAutoAssignTrainerIgnoresWithdrawnMembers(t *testing.T) {
	db := newTestDB(t)
	rng := rand.New(rand.NewSource(7))

	trainerA := createTrainer(t, db, "A")
	trainerB := createTrainer(t, db, "B")

	withdrawn := createMember(t, db, "Gone", &trainerA.ID, 0)
	require.NoError(t, db.Model(&withdrawn).Update("is_deleted", true).Error)
	createMember(t, db, "Active", &trainerB.ID, 10)

	// Trainer A's only member is withdrawn, so A carries zero load.
	trainer, err := AutoAssignTrainer(db, rng)
	require.NoError(t, err)
	assert.Equal(t, trainerA.ID, trainer.ID)
}

func TestAutoAssignTrainerTieBrokenAmongMinScore(t *testing.T) {
	db := newTestDB(t)
	rng := rand.New(rand.NewSource(99))

	tiedA := createTrainer(t, db, "Tied A")
	tiedB := createTrainer(t, db, "Tied B")
	loser := createTrainer(t, db, "Loser")

	createMember(t, db, "M1", &tiedA.ID, 5)
	createMember(t, db, "M2", &tiedB.ID, 5)
	createMember(t, db, "M3", &loser.ID, 30)

	picks := map[uuid.UUID]int{}
	for i := 0; i < 200; i++ {
		trainer, err := AutoAssignTrainer(db, rng)
		require.NoError(t, err)
		picks[trainer.ID]++
	}

	assert.Positive(t, picks[tiedA.ID])
	assert.Positive(t, picks[tiedB.ID])
	assert.Zero(t, picks[loser.ID])
}
