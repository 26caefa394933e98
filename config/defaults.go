package config

// Config keys and default values relevant to the consensus core. Keep
// this list narrow: if a setting isn't read anywhere, it doesn't
// belong here.
const (
	// strictBallotDiscipline: bool
	// When true, an acceptor's promise rule requires a strictly
	// greater ballot (classical single-decree Paxos). When false
	// (the default), it accepts ballots >= its current one, which is
	// what lets a multi-paxos leader stay in place across slots
	// without a fresh Phase 1 each round.
	KeyStrictBallotDiscipline = "strictBallotDiscipline"
	DefStrictBallotDiscipline = false

	// quorumOverride: int
	// Explicit quorum size to use instead of len(acceptors)/2+1. Zero
	// means no override.
	KeyQuorumOverride = "quorumOverride"
	DefQuorumOverride = 0

	// traceEnabled: bool
	// Whether package trace records Proposed/Decided/Voided events.
	KeyTraceEnabled = "traceEnabled"
	DefTraceEnabled = false

	// traceFile: string
	// Path the trace log is written to when traceEnabled is set.
	KeyTraceFile = "traceFile"
	DefTraceFile = "trace.log"
)
