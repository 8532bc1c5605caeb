package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS games (
  id          TEXT PRIMARY KEY,
  name        TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  state       TEXT NOT NULL,
  created_at  TIMESTAMP NOT NULL,
  updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
  id              TEXT NOT NULL,
  game_id         TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
  subject         TEXT NOT NULL,
  is_human        BOOLEAN NOT NULL,
  is_patient_zero BOOLEAN NOT NULL,
  bite_code       TEXT NOT NULL,
  squad_id        TEXT,
  created_at      TIMESTAMP NOT NULL,
  updated_at      TIMESTAMP NOT NULL,
  PRIMARY KEY (game_id, id),
  UNIQUE (game_id, subject),
  UNIQUE (game_id, bite_code)
);

CREATE TABLE IF NOT EXISTS kills (
  id            TEXT NOT NULL,
  game_id       TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
  killer_id     TEXT NOT NULL,
  victim_id     TEXT NOT NULL,
  time_of_death TIMESTAMP NOT NULL,
  description   TEXT NOT NULL DEFAULT '',
  location      TEXT NOT NULL DEFAULT '',
  created_at    TIMESTAMP NOT NULL,
  PRIMARY KEY (game_id, id)
);

CREATE TABLE IF NOT EXISTS squads (
  id         TEXT NOT NULL,
  game_id    TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
  name       TEXT NOT NULL,
  channel_id TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  PRIMARY KEY (game_id, id)
);

CREATE TABLE IF NOT EXISTS squad_members (
  game_id   TEXT NOT NULL,
  squad_id  TEXT NOT NULL,
  player_id TEXT NOT NULL,
  position  INTEGER NOT NULL,
  PRIMARY KEY (game_id, squad_id, player_id),
  FOREIGN KEY (game_id, squad_id) REFERENCES squads(game_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS channels (
  id         TEXT NOT NULL,
  game_id    TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
  name       TEXT NOT NULL,
  squad_id   TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  PRIMARY KEY (game_id, id)
);

CREATE TABLE IF NOT EXISTS missions (
  id                 TEXT NOT NULL,
  game_id            TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
  name               TEXT NOT NULL,
  description        TEXT NOT NULL DEFAULT '',
  location           TEXT NOT NULL DEFAULT '',
  visible_to_humans  BOOLEAN NOT NULL,
  visible_to_zombies BOOLEAN NOT NULL,
  start_time         TIMESTAMP NOT NULL,
  end_time           TIMESTAMP NOT NULL,
  created_at         TIMESTAMP NOT NULL,
  updated_at         TIMESTAMP NOT NULL,
  PRIMARY KEY (game_id, id)
);
`
