// Package jobs contains the scheduled background work: offering READY
// orders to couriers and flagging couriers whose location feed went
// quiet. Jobs are thin cron wrappers around command handlers; all
// business rules stay in the application core.
package jobs
