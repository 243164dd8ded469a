// Package askai wires terminal chat sessions to hosted AI inference APIs.
//
// The package offers a consistent surface over several providers:
//   - Groq (cloud, chat completions)
//   - OpenAI (cloud, chat completions)
//   - Anthropic (cloud, Messages API)
//   - Google Gemini (cloud, single-call generate-content)
//   - Ollama (self-hosted, chat endpoint)
//
// Every adapter implements the chat.Provider interface; callers hold a
// chat.Session and never see vendor request shapes.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	store, err := credentials.NewStore()
//	if err != nil {
//		log.Fatal(err)
//	}
//	provider, err := askai.GetProvider(context.Background(), cfg, store, "groq", "", false)
//	if err != nil {
//		log.Fatal(err)
//	}
//	session := chat.NewSession(provider, "You are terse.")
//	defer session.Close()
//
//	reply, err := session.Send(context.Background(), "Hello!")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(reply)
package askai

import "github.com/xostack/askai/chat"

// Provider is re-exported for callers that only import the root package.
type Provider = chat.Provider
