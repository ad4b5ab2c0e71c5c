// Package htn implements a Hierarchical Task Network planner.
//
// A planning problem is made of three parts:
//
//   - an AttributeSet, which names the slots of a WorldState (a flat vector of
//     float32 attributes, where attribute 0 is the "register");
//   - a Domain, holding primitive tasks (precondition and effect scripts) and
//     compound tasks (ordered alternative methods, each with a utility script,
//     an effect script and an ordered list of sub-tasks);
//   - a MethodFinder, the policy used to pick the method of a compound task.
//
// Scripts are sequences of Operation values, a tiny bytecode that reads and
// writes attributes. A script's result is the value left in the register.
//
// The Planner performs a depth-first decomposition of the root task. Every
// time a compound task is expanded a RestorePoint is pushed; when a primitive
// precondition fails, or a compound task runs out of methods, the most recent
// restore point is popped and the owning compound task is retried from the
// next method index.
//
// Usage:
//
//	attrs := htn.NewAttributeSet()
//	register, _ := attrs.AddAttribute("Register", 0)
//	hungry, _ := attrs.AddAttribute("Hungry", 1)
//
//	domain := htn.NewDomain()
//	eat, _ := domain.CreatePrimitiveTask("eat")
//	eat.Precondition.Add(htn.Operation{Code: htn.OpCopy, Left: register, Right: htn.Attr{ID: hungry}})
//	eat.Effect.Add(htn.Operation{Code: htn.OpCopy, Left: hungry, Right: htn.Const{Value: 0}})
//
//	root, _ := domain.TaskID("eat")
//	plan, err := htn.ComputePlan(root, attrs, domain, htn.ByCondition{})
//
// A Domain is read-only during planning and may be shared between concurrent
// planning calls. WorldState values are owned by a single call.
package htn
