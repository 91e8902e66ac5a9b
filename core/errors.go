package core

import "errors"

// ErrCorruptPlan marks a violated plan invariant. It is the only error
// class that surfaces as a terminal failed turn; reasoning, tool and
// store failures are absorbed into routing decisions or step outcomes.
var ErrCorruptPlan = errors.New("corrupt plan state")
