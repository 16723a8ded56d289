// ABOUTME: Corpus reference data: books, chapters and their paragraphs
// ABOUTME: ChapterWithContent is the per-request aggregate built by joining paragraphs
package models

import "strings"

// ParagraphSeparator joins paragraphs when a chapter is reassembled
const ParagraphSeparator = "\n\n"

// Book is one volume of the corpus
type Book struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Slug  string `json:"slug" yaml:"slug"`
}

// Chapter is a book-scoped, numbered section. ChapterNumber is unique within a book.
type Chapter struct {
	ID            int64  `json:"id" yaml:"id"`
	BookID        int64  `json:"book_id" yaml:"book_id"`
	Title         string `json:"title" yaml:"title"`
	ChapterNumber int    `json:"chapter_number" yaml:"chapter_number"`
}

// ChapterRef is a chapter joined with its parent book
type ChapterRef struct {
	Chapter
	BookTitle string `json:"book_title"`
	BookSlug  string `json:"book_slug"`
}

// Paragraph is one ordered piece of a chapter's text
type Paragraph struct {
	ID             int64  `json:"id" yaml:"id"`
	ChapterID      int64  `json:"chapter_id" yaml:"chapter_id"`
	Content        string `json:"content" yaml:"content"`
	SequenceNumber int    `json:"sequence_number" yaml:"sequence_number"`
}

// ChapterWithContent is a fully assembled chapter. Never cached across requests.
type ChapterWithContent struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	ChapterNumber int    `json:"chapterNumber"`
	BookTitle     string `json:"bookTitle"`
	Content       string `json:"content"`
}

// Label returns the "{book} — {chapter}" attribution string
func (c *ChapterWithContent) Label() string {
	return SourceLabel(c.BookTitle, c.Title)
}

// NewChapterWithContent joins paragraphs (already in sequence order) into one chapter.
// Zero paragraphs produce empty content.
func NewChapterWithContent(ref ChapterRef, paragraphs []Paragraph) *ChapterWithContent {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		parts = append(parts, p.Content)
	}
	return &ChapterWithContent{
		ID:            ref.ID,
		Title:         ref.Title,
		ChapterNumber: ref.ChapterNumber,
		BookTitle:     ref.BookTitle,
		Content:       strings.Join(parts, ParagraphSeparator),
	}
}

// SourceLabel formats a book/chapter pair the way sources are cited
func SourceLabel(bookTitle, chapterTitle string) string {
	return bookTitle + " — " + chapterTitle
}
