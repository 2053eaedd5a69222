package conversation

const routeSystemPrompt = `You classify messages for a scheduling assistant.
Categories:
- CREATE: the user wants to add or schedule a new task or event
- EDIT: the user wants to modify, delete, or complete an existing task
- CHECK: the user wants to view their schedule or tasks
- OTHER: help, settings, or other meta requests
Respond with ONLY a JSON object, no prose.`

const routeUserPromptFmt = `User message: %q

Respond with a JSON object like:
{"stage": "CREATE", "confidence": 0.9}`

const editResolveSystemPrompt = `You identify which task a user wants to edit
and what single change to make. Respond with ONLY a JSON object, no prose.`

const editResolveUserPromptFmt = `The user's recent tasks:

%s

User message: %q

Identify the MOST relevant task and the change to make.
Respond with ONE of:
- {"action": "delete", "id": "<task id>"}
- {"action": "complete", "id": "<task id>"}
- {"action": "update", "id": "<task id>", "changes": {"start_time": "10:00"}}

Valid change keys: title, date (YYYY-MM-DD), start_time (HH:MM),
end_time (HH:MM), duration_minutes. Only include keys that change.`

const correctionSystemPrompt = `A scheduling proposal is awaiting the user's
yes/no. Their reply is instead a correction. Extract only the fields they
want changed. Respond with ONLY a JSON object, no prose; respond with null
if the reply is not a correction.`

const correctionUserPromptFmt = `Pending proposal:
%s

User reply: %q

Respond with a JSON object using only the fields that should change:
{"title": "...", "date": "YYYY-MM-DD", "start_time": "HH:MM",
 "end_time": "HH:MM", "duration_minutes": 0}`

const chatSystemPrompt = `You are TimeBuddy, a friendly personal scheduling
assistant. Answer briefly and concretely. You can create tasks ("add gym
tomorrow at 7am for an hour"), edit them ("move my workout to 8am"), and
show the agenda ("what's on today?"). Never invent tasks or dates.`
