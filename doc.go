// Package agentdock manages the lifecycle of short-lived containerized
// chat agents: launching them in Docker, tracking their network
// location, verifying their health, proxying conversational requests
// to them, and tearing them down.
//
// The core is the Manager, which composes an in-memory Registry, a
// Docker-backed container launcher, a health Prober, and a ChatClient
// into the create/inspect/chat/delete operations the HTTP boundary in
// package serve exposes. Agent state lives only in memory; nothing
// survives a process restart.
//
// # Quick Start
//
//	cfg, err := agentdock.LoadConfig("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mgr, err := agentdock.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Close()
//
//	agent, err := mgr.Create(ctx, agentdock.AgentSpec{
//	    Type:     "coder",
//	    Template: "senior_fullstack",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := mgr.Chat(ctx, agent.ID, "Review this function for me", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(reply.Response)
//
// Creation is all-or-nothing: a container that never passes its first
// health check is torn down and never registered, so callers cannot
// observe a half-started agent.
package agentdock
