// Package brokerage turns raw events extracted from brokerage account
// statements (dividends, trades, corrective re-statements) into a
// reconciled, currency-aware ledger usable for cash-flow and tax
// reporting.
//
// The core functionalities include:
//   - Dividend Accrual Ledger: netting dividend payments against later
//     reversals keyed by payment date and issuer.
//   - Trade Execution Reconciler: matching planned trade-execution dates
//     against later broker-reported corrections before trades enter the
//     ledger.
//   - Cash-Flow Summarizer: aggregating signed cash movements into
//     per-currency summaries while enforcing conservation invariants
//     (starting + deposits - withdrawals = ending, per currency).
//   - Tax Payment Scheduler: bucketing realized profit by computed
//     tax-payment date, one bucket per calendar year.
//   - Data Persistence: decoding already-typed statement records from a
//     human-readable JSONL format.
//
// This package serves as the foundational logic for the `bsr`
// command-line tool. It is a purely in-memory transformation stage
// between parsed broker records and renderable report data: it does not
// fetch exchange rates, talk to a database, or decide how reports are
// displayed.
package brokerage
