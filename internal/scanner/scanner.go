package scanner

import (
	"database/sql"
	"encoding/json"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// RowScanner couvre pgx.Row et pgx.Rows
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanUser scanne une ligne SQL vers un User
// Colonnes attendues : id, subject_id, email, username, balance_cents,
// continue_tokens, featured_badge, last_withdrawal_at, created_at
func ScanUser(row RowScanner) (*model.User, error) {
	var user model.User
	var email, username, featuredBadge sql.NullString
	var lastWithdrawal sql.NullTime

	err := row.Scan(
		&user.ID, &user.SubjectID, &email, &username, &user.BalanceCents,
		&user.ContinueTokens, &featuredBadge, &lastWithdrawal, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Email = utils.NullStringToString(email)
	user.Username = utils.NullStringToString(username)
	user.FeaturedBadge = utils.NullStringToPointer(featuredBadge)
	user.LastWithdrawalAt = utils.NullTimeToPointer(lastWithdrawal)

	return &user, nil
}

// ScanRun scanne une ligne SQL vers un Run
// Colonnes : id, user_id, score, distance, duration_ms, client_version, created_at
func ScanRun(row RowScanner) (*model.Run, error) {
	var run model.Run
	var clientVersion sql.NullString

	err := row.Scan(
		&run.ID, &run.UserID, &run.Score, &run.Distance,
		&run.DurationMs, &clientVersion, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.ClientVersion = utils.NullStringToString(clientVersion)

	return &run, nil
}

// ScanContest scanne une ligne SQL vers un Contest
// Colonnes : id, name, slug, description, start_date, end_date,
// contest_timezone, status, prize_pool, rules, max_entries_per_user,
// created_at, updated_at
func ScanContest(row RowScanner) (*model.Contest, error) {
	var c model.Contest
	var description sql.NullString
	var prizePoolJSON, rulesJSON []byte

	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &description, &c.StartDate, &c.EndDate,
		&c.Timezone, &c.Status, &prizePoolJSON, &rulesJSON,
		&c.MaxEntriesPerUser, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = utils.NullStringToPointer(description)
	if prizePoolJSON != nil {
		json.Unmarshal(prizePoolJSON, &c.PrizePool)
	}
	if rulesJSON != nil {
		json.Unmarshal(rulesJSON, &c.Rules)
	}

	return &c, nil
}

// ScanTransaction scanne une ligne SQL vers un BalanceTransaction
// Colonnes : id, user_id, amount_cents, type, reference_id, description, created_at
func ScanTransaction(row RowScanner) (*model.BalanceTransaction, error) {
	var tx model.BalanceTransaction
	var referenceID, description sql.NullString

	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.AmountCents, &tx.Type,
		&referenceID, &description, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.ReferenceID = utils.NullStringToPointer(referenceID)
	tx.Description = utils.NullStringToString(description)

	return &tx, nil
}

// ScanWithdrawal scanne une ligne SQL vers un Withdrawal
// Colonnes : id, user_id, amount_cents, payment_method, contact_info,
// status, reviewed_at, reviewed_by, notes, created_at
func ScanWithdrawal(row RowScanner) (*model.Withdrawal, error) {
	var w model.Withdrawal
	var contactJSON []byte
	var reviewedAt sql.NullTime
	var reviewedBy, notes sql.NullString

	err := row.Scan(
		&w.ID, &w.UserID, &w.AmountCents, &w.PaymentMethod, &contactJSON,
		&w.Status, &reviewedAt, &reviewedBy, &notes, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if contactJSON != nil {
		json.Unmarshal(contactJSON, &w.ContactInfo)
	}
	w.ReviewedAt = utils.NullTimeToPointer(reviewedAt)
	w.ReviewedBy = utils.NullStringToPointer(reviewedBy)
	w.Notes = utils.NullStringToPointer(notes)

	return &w, nil
}

// ScanPrizeClaim scanne une ligne SQL vers un PrizeClaim
// Colonnes : id, contest_id, user_id, rank, prize_description, claim_status,
// contact_info, submitted_at, reviewed_at, reviewed_by, notes, created_at
func ScanPrizeClaim(row RowScanner) (*model.PrizeClaim, error) {
	var claim model.PrizeClaim
	var contactJSON []byte
	var submittedAt, reviewedAt sql.NullTime
	var reviewedBy, notes sql.NullString

	err := row.Scan(
		&claim.ID, &claim.ContestID, &claim.UserID, &claim.Rank,
		&claim.PrizeDescription, &claim.Status, &contactJSON,
		&submittedAt, &reviewedAt, &reviewedBy, &notes, &claim.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if contactJSON != nil {
		json.Unmarshal(contactJSON, &claim.ContactInfo)
	}
	claim.SubmittedAt = utils.NullTimeToPointer(submittedAt)
	claim.ReviewedAt = utils.NullTimeToPointer(reviewedAt)
	claim.ReviewedBy = utils.NullStringToPointer(reviewedBy)
	claim.Notes = utils.NullStringToPointer(notes)

	return &claim, nil
}

// ScanHourlyChallenge scanne une ligne SQL vers un HourlyChallenge
// Colonnes : id, challenge_hour, status, winner_user_id, winner_run_id,
// winner_score, winner_distance, ended_at, created_at
func ScanHourlyChallenge(row RowScanner) (*model.HourlyChallenge, error) {
	var hc model.HourlyChallenge
	var winnerUser, winnerRun sql.NullString
	var winnerScore, winnerDistance sql.NullInt64
	var endedAt sql.NullTime

	err := row.Scan(
		&hc.ID, &hc.ChallengeHour, &hc.Status, &winnerUser, &winnerRun,
		&winnerScore, &winnerDistance, &endedAt, &hc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	hc.WinnerUserID = utils.NullStringToPointer(winnerUser)
	hc.WinnerRunID = utils.NullStringToPointer(winnerRun)
	hc.WinnerScore = utils.NullInt64ToPointer(winnerScore)
	hc.WinnerDistance = utils.NullInt64ToPointer(winnerDistance)
	hc.EndedAt = utils.NullTimeToPointer(endedAt)

	return &hc, nil
}

// ScanFraudFlag scanne une ligne SQL vers un FraudFlag
// Colonnes : id, user_id, flag_type, severity, reference_id, metadata, created_at
func ScanFraudFlag(row RowScanner) (*model.FraudFlag, error) {
	var flag model.FraudFlag
	var referenceID sql.NullString
	var metadataJSON []byte

	err := row.Scan(
		&flag.ID, &flag.UserID, &flag.FlagType, &flag.Severity,
		&referenceID, &metadataJSON, &flag.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	flag.ReferenceID = utils.NullStringToPointer(referenceID)
	if metadataJSON != nil {
		json.Unmarshal(metadataJSON, &flag.Metadata)
	}

	return &flag, nil
}
