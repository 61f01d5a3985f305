package ai

// ExtractPrompt asks the model to list entities and relationships in a fixed
// semi-structured format. The parser in pkg/graph depends on the exact
// section markers and line shapes requested here; malformed output lines are
// skipped, never treated as errors.
//
// The single format argument is the text to extract from.
const ExtractPrompt = `Extract entities and relationships from the following text.

Text: %s

Please identify:
1. Entities: People, Organizations, Locations, Technologies, Concepts
2. Relationships: How entities relate to each other

Format your response as:
ENTITIES:
- [TYPE] Name: Description

RELATIONSHIPS:
- Source Entity -> Relationship Type -> Target Entity: Description

Be specific and extract all meaningful entities and relationships.`

// AnswerPrompt formats the fused retrieval context and the user's question
// for final answer generation. The two format arguments are the rendered
// context block and the question.
const AnswerPrompt = `Answer the following question based on the provided context.

Context:
%s

Question: %s

Instructions:
- Provide a clear, concise answer based on the context
- If the context doesn't contain enough information, say so
- Use specific details from the context when available
- Reference entities and relationships when relevant

Answer:`
