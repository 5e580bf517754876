// Package weaver compiles user-drawn workflow graphs into runnable pipelines.
//
// Nodes are instances of registered classes (providers, processors,
// terminators or generic nodes) connected through typed handles. The runtime
// exposes the following service layers:
//
//   - compat   – handle type compatibility, suggestions and graph validation
//   - compiler – dependency ordered node instantiation and output selection
//   - governor – one running execution per workflow and user
//   - session  – conversation sessions with expiry and a memory adapter
//
// Hosts typically interact with the engine via the Service façade:
//
//	srv, _ := weaver.New(weaver.WithNodes(classes...))
//	_ = srv.Start(ctx)
//	defer srv.Shutdown(ctx)
//	g, _ := srv.LoadGraph(ctx, "chat.yaml")
//	resp, _ := srv.Execute(ctx, &weaver.Request{UserID: "u1", Graph: g, Input: "hello"})
package weaver
