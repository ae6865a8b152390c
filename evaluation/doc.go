// Package evaluation scores agent answers.
//
// Similarity compares an answer with a reference answer by the cosine similarity of
// their embeddings. Judge asks a language model to grade an answer against a
// reference and returns a structured Verdict.
package evaluation
