package apiclient

import "encoding/json"

// defaultMocks is the static fallback table used when the upstream is
// unreachable. Keys are exact endpoint paths.
func defaultMocks() map[string]json.RawMessage {
	return map[string]json.RawMessage{
		"/dashboard/metrics": json.RawMessage(`{
			"totalSessions": 12,
			"activeSessions": 5,
			"completedSessions": 6,
			"averageCompletionTime": 14.5,
			"averageCompletionPercentage": 68,
			"sessionsThisWeek": 3,
			"completionRate": 0.5
		}`),
		"/dashboard/sessions": json.RawMessage(`{
			"sessions": [
				{
					"sessionId": "mock-session-1",
					"workspaceId": "mock-workspace-1",
					"clientName": "Acme Industries",
					"completionPercentage": 67,
					"currentPhase": 4,
					"lastActivity": "2025-11-03T10:15:00Z",
					"status": "active",
					"startedAt": "2025-10-20T09:00:00Z"
				},
				{
					"sessionId": "mock-session-2",
					"workspaceId": "mock-workspace-2",
					"clientName": "Globex Corporation",
					"completionPercentage": 100,
					"currentPhase": 6,
					"lastActivity": "2025-11-01T16:40:00Z",
					"status": "completed",
					"startedAt": "2025-10-12T11:30:00Z"
				}
			]
		}`),
		"/context/manifest": json.RawMessage(`{
			"success": true,
			"version": "2025-11-03.1",
			"checksum": "0f343b0931126a20f133d67c2b018a3b",
			"retrieved_at": "2025-11-03T10:00:00Z"
		}`),
	}
}
