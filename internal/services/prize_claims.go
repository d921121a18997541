package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const claimColumns = `id, contest_id, user_id, rank, prize_description,
	claim_status, contact_info, submitted_at, reviewed_at, reviewed_by,
	notes, created_at`

type PrizeClaimService struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPrizeClaimService(db *pgxpool.Pool) *PrizeClaimService {
	return &PrizeClaimService{db: db, now: time.Now}
}

func (s *PrizeClaimService) CreateClaim(ctx context.Context, contestID, userID string, rank int, prize string) (*model.PrizeClaim, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO prize_claims(contest_id, user_id, rank, prize_description, claim_status)
		VALUES($1, $2, $3, $4, $5)
		RETURNING `+claimColumns,
		contestID, userID, rank, prize, model.ClaimStatusPending)

	return scanner.ScanPrizeClaim(row)
}

// ClaimForContestUser retourne nil sans erreur si le joueur n'a pas de
// réclamation pour ce concours
func (s *PrizeClaimService) ClaimForContestUser(ctx context.Context, contestID, userID string) (*model.PrizeClaim, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+claimColumns+`
		FROM prize_claims
		WHERE contest_id = $1 AND user_id = $2`,
		contestID, userID)

	claim, err := scanner.ScanPrizeClaim(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return claim, err
}

func (s *PrizeClaimService) UserClaims(ctx context.Context, userID string) ([]model.PrizeClaim, error) {
	rows, err := s.db.Query(ctx, `
		SELECT pc.id, pc.contest_id, pc.user_id, pc.rank, pc.prize_description,
			pc.claim_status, pc.contact_info, pc.submitted_at, pc.reviewed_at,
			pc.reviewed_by, pc.notes, pc.created_at, c.name
		FROM prize_claims pc
		JOIN contests c ON c.id = pc.contest_id
		WHERE pc.user_id = $1
		ORDER BY pc.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := []model.PrizeClaim{}
	for rows.Next() {
		var claim model.PrizeClaim
		var contactInfo []byte
		var contestName string
		err := rows.Scan(&claim.ID, &claim.ContestID, &claim.UserID, &claim.Rank,
			&claim.PrizeDescription, &claim.Status, &contactInfo,
			&claim.SubmittedAt, &claim.ReviewedAt, &claim.ReviewedBy,
			&claim.Notes, &claim.CreatedAt, &contestName)
		if err != nil {
			return nil, err
		}
		if len(contactInfo) > 0 {
			if err := json.Unmarshal(contactInfo, &claim.ContactInfo); err != nil {
				return nil, err
			}
		}
		claim.ContestName = &contestName
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// ClaimByID récupère une réclamation, restreinte au propriétaire si userID
// est non vide (les admins passent "")
func (s *PrizeClaimService) ClaimByID(ctx context.Context, claimID, userID string) (*model.PrizeClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM prize_claims WHERE id = $1`
	args := []interface{}{claimID}
	if userID != "" {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}

	row := s.db.QueryRow(ctx, query, args...)
	claim, err := scanner.ScanPrizeClaim(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return claim, err
}

// SubmitClaim enregistre les coordonnées du gagnant. Une réclamation déjà
// soumise ne peut pas l'être une seconde fois.
func (s *PrizeClaimService) SubmitClaim(ctx context.Context, claimID, userID string, contactInfo map[string]interface{}) (*model.PrizeClaim, error) {
	claim, err := s.ClaimByID(ctx, claimID, userID)
	if err != nil {
		return nil, err
	}
	if claim.Status != model.ClaimStatusPending {
		return nil, ErrAlreadySubmitted
	}

	contactJSON, err := json.Marshal(contactInfo)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE prize_claims
		SET claim_status = $2, contact_info = $3::jsonb, submitted_at = $4
		WHERE id = $1
		RETURNING `+claimColumns,
		claimID, model.ClaimStatusSubmitted, string(contactJSON), s.now())

	return scanner.ScanPrizeClaim(row)
}

// ReviewClaim permet à un admin d'approuver, rejeter ou marquer payé
func (s *PrizeClaimService) ReviewClaim(ctx context.Context, claimID, status, reviewedBy string, notes *string) (*model.PrizeClaim, error) {
	switch status {
	case model.ClaimStatusApproved, model.ClaimStatusRejected, model.ClaimStatusPaid:
	default:
		return nil, fmt.Errorf("invalid claim status: %s", status)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE prize_claims
		SET claim_status = $2, reviewed_at = $3, reviewed_by = $4, notes = $5
		WHERE id = $1
		RETURNING `+claimColumns,
		claimID, status, s.now(), reviewedBy, notes)

	claim, err := scanner.ScanPrizeClaim(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return claim, err
}
