// Package widgets provides small stateful models for interactive views.
//
// A widget model lives inside the application model and is updated by the
// application's Update function, for example:
//
//	case widgets.ButtonMessage:
//	    m.Submit, clicked = m.Submit.Update(msg)
//
// Its View method returns the plain view that lowers to an interaction node.
package widgets
