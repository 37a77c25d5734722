// Package postgres implements the PostgreSQL persistence layer for Boostly.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create students table
-- Version: 001

CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) NOT NULL,
    current_balance INTEGER NOT NULL DEFAULT 100,
    credits_received_total INTEGER NOT NULL DEFAULT 0,
    monthly_sent_this_month INTEGER NOT NULL DEFAULT 0,
    last_credit_reset TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Balances never go negative; lifetime counter only grows.
    CONSTRAINT valid_balance CHECK (current_balance >= 0),
    CONSTRAINT valid_received_total CHECK (credits_received_total >= 0),
    CONSTRAINT valid_monthly_sent CHECK (monthly_sent_this_month >= 0)
);

-- Composite index matching the leaderboard sort order exactly.
CREATE INDEX IF NOT EXISTS idx_students_leaderboard ON students(credits_received_total DESC, id ASC);
CREATE INDEX IF NOT EXISTS idx_students_created_at ON students(created_at);

-- Updated_at trigger function for automatic timestamp updates
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_students_updated_at ON students;
CREATE TRIGGER update_students_updated_at
    BEFORE UPDATE ON students
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_students_updated_at ON students;
DROP FUNCTION IF EXISTS update_updated_at_column();
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE RECOGNITIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create recognitions and endorsements
-- Version: 002

-- Recognitions: credit transfers with an optional message
CREATE TABLE IF NOT EXISTS recognitions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    sender_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    receiver_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    credits INTEGER NOT NULL,
    message VARCHAR(500) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT positive_credits CHECK (credits > 0),
    CONSTRAINT no_self_transfer CHECK (sender_id != receiver_id)
);

CREATE INDEX IF NOT EXISTS idx_recognitions_sender ON recognitions(sender_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_recognitions_receiver ON recognitions(receiver_id, created_at DESC);

-- Endorsements: one per (recognition, endorser). The unique index is the
-- authority on duplicates; application-level checks only shortcut the error.
CREATE TABLE IF NOT EXISTS endorsements (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    recognition_id UUID NOT NULL REFERENCES recognitions(id) ON DELETE CASCADE,
    endorser_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE(recognition_id, endorser_id)
);

CREATE INDEX IF NOT EXISTS idx_endorsements_recognition ON endorsements(recognition_id);
CREATE INDEX IF NOT EXISTS idx_endorsements_endorser ON endorsements(endorser_id);
`

const migration002Down = `
DROP TABLE IF EXISTS endorsements;
DROP TABLE IF EXISTS recognitions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE LEDGER
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create redemption and monthly reset journal tables
-- Version: 003

-- Redemptions: permanent balance deductions exchanged for vouchers
CREATE TABLE IF NOT EXISTS redemptions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    credits_redeemed INTEGER NOT NULL,
    voucher_value_inr INTEGER NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT positive_redeemed CHECK (credits_redeemed > 0),
    CONSTRAINT positive_voucher CHECK (voucher_value_inr > 0)
);

CREATE INDEX IF NOT EXISTS idx_redemptions_student ON redemptions(student_id, created_at DESC);

-- Monthly reset journal: one row per student per cycle
CREATE TABLE IF NOT EXISTS monthly_reset_logs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    carried_forward INTEGER NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_month CHECK (month >= 1 AND month <= 12),
    CONSTRAINT valid_carried_forward CHECK (carried_forward >= 0 AND carried_forward <= 50),

    UNIQUE(student_id, year, month)
);

CREATE INDEX IF NOT EXISTS idx_reset_logs_student ON monthly_reset_logs(student_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_reset_logs_cycle ON monthly_reset_logs(year, month);
`

const migration003Down = `
DROP TABLE IF EXISTS monthly_reset_logs;
DROP TABLE IF EXISTS redemptions;
`
