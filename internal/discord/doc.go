// package discord connects the command bot to a Discord gateway session
//
// # Gateway
//
// [Gateway] owns the [discordgo.Session]. Every MessageCreate and MessageReactionAdd event is
// published to a shared [chat.Waiters] registry so that running flows can resume, and messages
// that parse as commands are handed to the bot in their own goroutine.
//
// # Conversation
//
// [Conversation] implements [chat.Conversation] for one channel. Outgoing text longer than
// [MaxMessageLength] is split on line boundaries before sending.
package discord
