package constants

const MinLovelace = 1_000_000
