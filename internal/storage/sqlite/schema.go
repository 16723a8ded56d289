// ABOUTME: SQLite database schema for the local corpus store
// ABOUTME: Books, chapters, paragraphs, dictionary entries and embedded passages
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Books (one row per volume)
CREATE TABLE IF NOT EXISTS books (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE
);

-- Chapters; chapter_number is unique within a book.
-- title_key holds the folded title used for case-insensitive matching.
CREATE TABLE IF NOT EXISTS chapters (
    id INTEGER PRIMARY KEY,
    book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    title_key TEXT NOT NULL,
    chapter_number INTEGER NOT NULL,
    UNIQUE (book_id, chapter_number)
);

-- Paragraphs; sequence_number orders them within a chapter
CREATE TABLE IF NOT EXISTS paragraphs (
    id INTEGER PRIMARY KEY,
    chapter_id INTEGER NOT NULL REFERENCES chapters(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    sequence_number INTEGER NOT NULL,
    UNIQUE (chapter_id, sequence_number)
);

-- Dictionary; word is stored normalized
CREATE TABLE IF NOT EXISTS dictionary (
    word TEXT PRIMARY KEY,
    definition TEXT NOT NULL,
    root_word TEXT
);

-- Embedded passages for similarity search (vector as little-endian float64 BLOB)
CREATE TABLE IF NOT EXISTS passages (
    id INTEGER PRIMARY KEY,
    chapter_id INTEGER NOT NULL REFERENCES chapters(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    vector BLOB NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_chapters_number ON chapters(chapter_number);
CREATE INDEX IF NOT EXISTS idx_chapters_title_key ON chapters(title_key);
CREATE INDEX IF NOT EXISTS idx_paragraphs_chapter ON paragraphs(chapter_id, sequence_number);
CREATE INDEX IF NOT EXISTS idx_dictionary_root ON dictionary(root_word);
CREATE INDEX IF NOT EXISTS idx_passages_chapter ON passages(chapter_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
