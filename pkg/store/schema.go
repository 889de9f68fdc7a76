package store

// The schema mirrors the layout of the LEGI archive: one row per text
// version, section and article, with the tables of contents in
// sommaires. textes_versions_brutes archives the original values of
// normalized columns; the view reads them back through the bitmask.
const schema = `
CREATE TABLE db_meta (
    key     TEXT PRIMARY KEY NOT NULL,
    value   BLOB
);

CREATE TABLE textes (
    id          INTEGER PRIMARY KEY NOT NULL,
    nature      TEXT NOT NULL,
    num         TEXT,
    nor         CHAR(12) UNIQUE,
    titrefull_s TEXT UNIQUE
);

CREATE TABLE textes_versions (
    id          CHAR(20) PRIMARY KEY NOT NULL,
    nature      TEXT,
    titre       TEXT,
    titrefull   TEXT,
    titrefull_s TEXT,
    etat        TEXT,
    date_debut  DAY,
    date_fin    DAY,
    autorite    TEXT,
    ministere   TEXT,
    num         TEXT,
    nor         CHAR(12),
    date_publi  DAY,
    date_texte  DAY,
    visas       TEXT,
    signataires TEXT,
    nota        TEXT,
    dossier     TEXT NOT NULL,
    cid         CHAR(20) NOT NULL,
    mtime       INT NOT NULL,
    texte_id    INT REFERENCES textes(id)
);

CREATE INDEX textes_versions_titrefull_s ON textes_versions (titrefull_s);
CREATE INDEX textes_versions_texte_id ON textes_versions (texte_id);

CREATE TABLE sections (
    id          CHAR(20) PRIMARY KEY NOT NULL,
    titre_ta    TEXT,
    commentaire TEXT,
    parent      CHAR(20),
    dossier     TEXT NOT NULL,
    cid         CHAR(20) NOT NULL,
    mtime       INT NOT NULL
);

CREATE TABLE articles (
    id           CHAR(20) PRIMARY KEY NOT NULL,
    section      CHAR(20),
    num          TEXT,
    etat         TEXT,
    date_debut   DAY,
    date_fin     DAY,
    type         TEXT,
    nota         TEXT,
    bloc_textuel TEXT,
    dossier      TEXT NOT NULL,
    cid          CHAR(20) NOT NULL,
    mtime        INT NOT NULL
);

CREATE TABLE sommaires (
    cid      CHAR(20) NOT NULL,
    parent   CHAR(20),
    element  CHAR(20) NOT NULL,
    debut    DAY,
    fin      DAY,
    etat     TEXT,
    num      TEXT,
    position INT,
    _source  TEXT
);

CREATE INDEX sommaires_cid_idx ON sommaires (cid);

CREATE TABLE liens (
    src_id    CHAR(20) NOT NULL,
    dst_cid   CHAR(20),
    dst_id    CHAR(20),
    dst_titre TEXT,
    typelien  TEXT,
    _reversed BOOL
);

CREATE INDEX liens_src_idx ON liens (src_id) WHERE NOT _reversed;
CREATE INDEX liens_dst_idx ON liens (dst_id) WHERE _reversed;

CREATE TABLE textes_structs (
    id       CHAR(20) PRIMARY KEY NOT NULL,
    versions TEXT,
    dossier  TEXT NOT NULL,
    cid      CHAR(20) NOT NULL,
    mtime    INT NOT NULL
);

CREATE TABLE textes_versions_brutes (
    id         CHAR(20) PRIMARY KEY NOT NULL,
    bits       INT NOT NULL,
    nature     TEXT,
    titre      TEXT,
    titrefull  TEXT,
    autorite   TEXT,
    num        TEXT,
    date_texte DAY,
    dossier    TEXT NOT NULL,
    cid        CHAR(20) NOT NULL,
    mtime      INT NOT NULL
);

CREATE VIEW textes_versions_brutes_view AS
    SELECT a.id,
           CASE WHEN b.bits & 1  THEN b.nature     ELSE a.nature     END AS nature,
           CASE WHEN b.bits & 2  THEN b.titre      ELSE a.titre      END AS titre,
           CASE WHEN b.bits & 4  THEN b.titrefull  ELSE a.titrefull  END AS titrefull,
           a.titrefull_s,
           CASE WHEN b.bits & 8  THEN b.autorite   ELSE a.autorite   END AS autorite,
           CASE WHEN b.bits & 16 THEN b.num        ELSE a.num        END AS num,
           CASE WHEN b.bits & 32 THEN b.date_texte ELSE a.date_texte END AS date_texte
      FROM textes_versions a
LEFT JOIN textes_versions_brutes b
        ON b.id = a.id AND b.cid = a.cid AND b.dossier = a.dossier AND b.mtime = a.mtime;
`

const schemaVersion = 1
