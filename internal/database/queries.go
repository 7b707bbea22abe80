/**
 * Copyright 2025-present Profit Bliss
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// Account queries
	queryInsertAccount = `
		INSERT OR IGNORE INTO accounts (id, email, password_hash, phone, verified, is_admin, balance, referral)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetAccountById = `
		SELECT id, email, password_hash, phone, verified, is_admin, balance, referral, created_at
		FROM accounts
		WHERE id = ?`

	queryGetAccountByEmail = `
		SELECT id, email, password_hash, phone, verified, is_admin, balance, referral, created_at
		FROM accounts
		WHERE email = ?`

	queryGetAccounts = `
		SELECT id, email, password_hash, phone, verified, is_admin, balance, referral, created_at
		FROM accounts
		ORDER BY created_at`

	queryDeleteAccount = `
		DELETE FROM accounts WHERE id = ?`

	queryMarkAccountVerified = `
		UPDATE accounts SET verified = 1 WHERE id = ?`

	queryGetAccountBalance = `
		SELECT balance, version
		FROM accounts
		WHERE id = ?`

	queryUpdateAccountBalance = `
		UPDATE accounts
		SET balance = ?, version = version + 1
		WHERE id = ? AND version = ?`

	// Verification token queries
	queryInsertVerifyToken = `
		INSERT INTO verify_tokens (id, account_id, token, created_at)
		VALUES (?, ?, ?, ?)`

	queryGetVerifyToken = `
		SELECT id, account_id, created_at
		FROM verify_tokens
		WHERE token = ?`

	queryDeleteVerifyToken = `
		DELETE FROM verify_tokens WHERE id = ?`

	// Plan catalog queries
	queryCountPlans = `
		SELECT COUNT(*) FROM plans`

	queryInsertPlan = `
		INSERT INTO plans (id, name, stake, daily_roi, duration_days)
		VALUES (?, ?, ?, ?, ?)`

	queryGetPlans = `
		SELECT id, name, stake, daily_roi, duration_days
		FROM plans
		ORDER BY CAST(stake AS REAL)`

	queryGetPlan = `
		SELECT id, name, stake, daily_roi, duration_days
		FROM plans
		WHERE id = ?`

	// Active plan queries
	queryInsertActivePlan = `
		INSERT INTO active_plans (id, account_id, plan_id, plan_name, stake, daily_roi, status, started_at, ends_at, last_credited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`

	queryGetActivePlansByAccount = `
		SELECT id, account_id, plan_id, plan_name, stake, daily_roi, status, started_at, ends_at, last_credited_at
		FROM active_plans
		WHERE account_id = ?
		ORDER BY started_at DESC`

	queryGetAccruablePlans = `
		SELECT id, account_id, plan_id, plan_name, stake, daily_roi, status, started_at, ends_at, last_credited_at
		FROM active_plans
		WHERE status = 'active'
		ORDER BY started_at`

	queryAdvanceActivePlan = `
		UPDATE active_plans
		SET last_credited_at = ?, status = ?
		WHERE id = ? AND status = 'active'`

	// Ledger queries
	queryCheckDuplicateEntry = `
		SELECT id FROM ledger_entries WHERE reference = ? LIMIT 1`

	queryInsertLedgerEntry = `
		INSERT INTO ledger_entries (id, account_id, entry_type, amount, balance_before, balance_after, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetLedgerHistory = `
		SELECT id, account_id, entry_type, amount, balance_before, balance_after, reference, created_at
		FROM ledger_entries
		WHERE account_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	// Message queries
	queryInsertMessage = `
		INSERT INTO messages (id, account_id, subject, body, from_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetMessagesByAccount = `
		SELECT id, account_id, subject, body, from_admin, created_at
		FROM messages
		WHERE account_id = ?
		ORDER BY created_at DESC`
)
