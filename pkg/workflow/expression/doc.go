// Package expression evaluates guard expressions written in Lua.
//
// An expression is a single Lua expression such as
//
//	subject.total > 0 and subject.owner == "alice"
//
// compiled as the body of "return (...)" with every variable bound to a
// local. Compiled programs are cached by source and variable names in an LRU
// cache, and interpreters are pooled. The io, os, debug and module loading
// functions are removed from every interpreter.
//
// Guard turns an expression into a workflow availability guard: a false result
// blocks the transition with a BlockedByExpression blocker, and compile or
// runtime errors block it with the error message.
//
//	env := expression.NewEnv()
//	t := workflow.NewTransition("ship", "paid", "shipped",
//	    workflow.WithGuards(expression.Guard(env, "subject.items > 0", nil)),
//	)
package expression
