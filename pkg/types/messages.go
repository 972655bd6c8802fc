package types

// Client -> Server
// createPrivateLobby:
//   name: string
//
// join:
//   name: string
//   lobbyId?: string // omit for quick-join matchmaking
//
// playWithBots:
//   name: string
//   difficulty?: "easy" | "medium" | "hard" | "genius"
//   botCount?: number
//
// setReady:
//   ready: boolean
//
// submitWord:
//   word: string
//
// chatMessage:
//   message: string
//
// returnToLobby: {}
//
// leaveLobby: {}

// Server -> Client
// state: // personalized per player
//   version: number
//   lobbyId: string
//   you: string
//   status: "lobby" | "active" | "ended"
//   letters: string[]
//   timeLeft: number
//   lobbyCountdown?: number
//   resetCountdown?: number
//   players: { id, name, color, score, streak, ready, isBot }[]
//   words: { index, length, revealed, word? }[]
//   topWords?: { word, points }[]   // only once the round has ended
//   winner?: { name, score }
//
// tick:
//   timeLeft: number
//
// lobbyCountdown / resetCountdown:
//   seconds: number | null // null cancels
//
// chatMessage: { from, body } // both masked
// chatHistory: { from, body }[]
//
// submissionAccepted:
//   word: string
//   points: number // signed total delta for this submission
//
// submissionError / joinError / lobbyFull:
//   error: string
//
// chatBlocked:
//   seconds: number
//   until: number // unix millis
