package queries

// User lockout and reputation queries. Every statement that changes a counter
// does the arithmetic in SQL so concurrent requests cannot lose updates.
const (
	GetUserAuthState = `
		SELECT id, failed_login_attempts, locked_until
		FROM users
		WHERE id = $1`

	// RecordFailedLogin increments the failure counter and locks the account
	// once the counter reaches the threshold, all in one statement.
	//   $1 user id, $2 now, $3 lock threshold (0 disables locking), $4 lock expiry
	// The counter keeps growing across an expired lock, so an account that
	// was locked once locks again on its next failure. Only a successful
	// login or an admin unlock resets it. Rows that are still locked are
	// left untouched and no row is returned.
	RecordFailedLogin = `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
			locked_until = CASE
				WHEN $3::int > 0 AND failed_login_attempts + 1 >= $3::int THEN $4::timestamptz
				ELSE NULL
			END,
			last_failed_attempt = $2::timestamptz
		WHERE id = $1
			AND (locked_until IS NULL OR locked_until <= $2::timestamptz)
		RETURNING id, failed_login_attempts, locked_until`

	ResetLoginState = `
		UPDATE users
		SET failed_login_attempts = 0,
			locked_until = NULL
		WHERE id = $1`

	// ClearExpiredLocks only tidies the lock column; the failure count is
	// kept so a swept row behaves like an unswept one.
	ClearExpiredLocks = `
		UPDATE users
		SET locked_until = NULL
		WHERE locked_until IS NOT NULL
			AND locked_until <= $1`

	AddReputationPoints = `
		UPDATE users
		SET reputation_points = reputation_points + $2
		WHERE id = $1
		RETURNING reputation_points`

	GetUserReputation = `
		SELECT id, reputation_points
		FROM users
		WHERE id = $1`
)
