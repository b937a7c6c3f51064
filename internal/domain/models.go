package domain

import (
	"time"
)

type (
	VoteID       string
	BallotID     string
	ResultID     string
	ElectionID   string
	ConnectionID string
	ListID       string
	CandidateID  string
)

type BallotType string

const (
	BallotProposal        BallotType = "proposal"
	BallotCounterProposal BallotType = "counter-proposal"
	BallotTieBreaker      BallotType = "tie-breaker"
)

type ElectionType string

const (
	ElectionProporz ElectionType = "proporz"
	ElectionMajorz  ElectionType = "majorz"
)

// Vote descreve a questão submetida ao eleitorado; contém uma cédula simples
// ou três (proposta, contraproposta e desempate).
type Vote struct {
	ID        VoteID    `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Title     string    `gorm:"column:title;type:text;not null" json:"title"`
	Shortcode string    `gorm:"column:shortcode;type:text" json:"shortcode"`
	Domain    string    `gorm:"column:domain;type:text" json:"domain"`
	Status    string    `gorm:"column:status;type:text" json:"status"`
	Date      time.Time `gorm:"column:date;not null" json:"date"`
	Ballots   []Ballot  `gorm:"foreignKey:VoteID;constraint:OnDelete:CASCADE" json:"ballots,omitempty"`
	CreatedAt time.Time `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:modified;autoUpdateTime" json:"-"`
}

type Ballot struct {
	ID        BallotID       `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	VoteID    VoteID         `gorm:"column:vote_id;type:char(26);not null;index" json:"vote_id"`
	Type      BallotType     `gorm:"column:type;type:text;not null" json:"type"`
	Results   []BallotResult `gorm:"foreignKey:BallotID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
	CreatedAt time.Time      `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"column:modified;autoUpdateTime" json:"-"`
}

// BallotResult é a contagem de uma cédula em uma entidade (município, distrito).
// As contagens aceitam NULL porque dados históricos chegam incompletos.
type BallotResult struct {
	ID             ResultID  `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	BallotID       BallotID  `gorm:"column:ballot_id;type:char(26);not null;index" json:"ballot_id"`
	Group          string    `gorm:"column:entity_group;type:text;not null" json:"group"`
	EntityID       int64     `gorm:"column:entity_id;not null" json:"entity_id"`
	Counted        bool      `gorm:"column:counted;not null" json:"counted"`
	Yeas           *int64    `gorm:"column:yeas" json:"yeas"`
	Nays           *int64    `gorm:"column:nays" json:"nays"`
	Empty          *int64    `gorm:"column:empty" json:"empty"`
	Invalid        *int64    `gorm:"column:invalid" json:"invalid"`
	EligibleVoters *int64    `gorm:"column:eligible_voters" json:"eligible_voters"`
	CreatedAt      time.Time `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"column:modified;autoUpdateTime" json:"-"`
}

type Election struct {
	ID               ElectionID       `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Title            string           `gorm:"column:title;type:text;not null" json:"title"`
	Shortcode        string           `gorm:"column:shortcode;type:text" json:"shortcode"`
	Date             time.Time        `gorm:"column:date;not null" json:"date"`
	Type             ElectionType     `gorm:"column:type;type:text;not null" json:"type"`
	NumberOfMandates int64            `gorm:"column:number_of_mandates;not null;default:0" json:"number_of_mandates"`
	AbsoluteMajority *int64           `gorm:"column:absolute_majority" json:"absolute_majority"`
	TotalEntities    *int64           `gorm:"column:total_entities" json:"total_entities"`
	CountedEntities  *int64           `gorm:"column:counted_entities" json:"counted_entities"`
	ListConnections  []ListConnection `gorm:"foreignKey:ElectionID;constraint:OnDelete:CASCADE" json:"list_connections,omitempty"`
	Lists            []List           `gorm:"foreignKey:ElectionID;constraint:OnDelete:CASCADE" json:"lists,omitempty"`
	Candidates       []Candidate      `gorm:"foreignKey:ElectionID;constraint:OnDelete:CASCADE" json:"candidates,omitempty"`
	Results          []ElectionResult `gorm:"foreignKey:ElectionID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
	PartyResults     []PartyResult    `gorm:"foreignKey:ElectionID;constraint:OnDelete:CASCADE" json:"party_results,omitempty"`
	CreatedAt        time.Time        `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt        time.Time        `gorm:"column:modified;autoUpdateTime" json:"-"`
}

// ElectionResult guarda a apuração de uma eleição em uma única entidade.
type ElectionResult struct {
	ID               ResultID          `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	ElectionID       ElectionID        `gorm:"column:election_id;type:char(26);not null;index" json:"election_id"`
	Group            string            `gorm:"column:entity_group;type:text;not null" json:"group"`
	EntityID         int64             `gorm:"column:entity_id;not null" json:"entity_id"`
	EligibleVoters   int64             `gorm:"column:eligible_voters;not null;default:0" json:"eligible_voters"`
	ReceivedBallots  int64             `gorm:"column:received_ballots;not null;default:0" json:"received_ballots"`
	BlankBallots     int64             `gorm:"column:blank_ballots;not null;default:0" json:"blank_ballots"`
	InvalidBallots   int64             `gorm:"column:invalid_ballots;not null;default:0" json:"invalid_ballots"`
	BlankVotes       int64             `gorm:"column:blank_votes;not null;default:0" json:"blank_votes"`
	InvalidVotes     int64             `gorm:"column:invalid_votes;not null;default:0" json:"invalid_votes"`
	ListResults      []ListResult      `gorm:"foreignKey:ElectionResultID;constraint:OnDelete:CASCADE" json:"list_results,omitempty"`
	CandidateResults []CandidateResult `gorm:"foreignKey:ElectionResultID;constraint:OnDelete:CASCADE" json:"candidate_results,omitempty"`
	CreatedAt        time.Time         `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt        time.Time         `gorm:"column:modified;autoUpdateTime" json:"-"`
}

// ListConnection agrupa listas (e subconexões) que somam votos para a
// distribuição de cadeiras. Votes e NumberOfMandates são a soma das listas
// diretamente ligadas ao nó, recalculada pelo worker.
type ListConnection struct {
	ID               ConnectionID     `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	ConnectionID     string           `gorm:"column:connection_id;type:text;not null" json:"connection_id"`
	ElectionID       ElectionID       `gorm:"column:election_id;type:char(26);index" json:"election_id"`
	ParentID         *ConnectionID    `gorm:"column:parent_id;type:char(26);index" json:"parent_id"`
	Children         []ListConnection `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitempty"`
	Lists            []List           `gorm:"foreignKey:ConnectionID;constraint:OnDelete:CASCADE" json:"lists,omitempty"`
	Votes            *int64           `gorm:"column:votes" json:"votes"`
	NumberOfMandates *int64           `gorm:"column:number_of_mandates" json:"number_of_mandates"`
	CreatedAt        time.Time        `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt        time.Time        `gorm:"column:modified;autoUpdateTime" json:"-"`
}

type List struct {
	ID               ListID        `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	ListID           string        `gorm:"column:list_id;type:text;not null" json:"list_id"`
	Name             string        `gorm:"column:name;type:text;not null" json:"name"`
	ElectionID       ElectionID    `gorm:"column:election_id;type:char(26);not null;index" json:"election_id"`
	ConnectionID     *ConnectionID `gorm:"column:connection_id;type:char(26);index" json:"connection_id"`
	NumberOfMandates int64         `gorm:"column:number_of_mandates;not null;default:0" json:"number_of_mandates"`
	Votes            int64         `gorm:"column:votes;not null;default:0" json:"votes"`
	Results          []ListResult  `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
	CreatedAt        time.Time     `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt        time.Time     `gorm:"column:modified;autoUpdateTime" json:"-"`
}

type ListResult struct {
	ID               ResultID  `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	ElectionResultID ResultID  `gorm:"column:election_result_id;type:char(26);not null;index" json:"election_result_id"`
	ListID           ListID    `gorm:"column:list_id;type:char(26);not null;index" json:"list_id"`
	Votes            int64     `gorm:"column:votes;not null;default:0" json:"votes"`
	CreatedAt        time.Time `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt        time.Time `gorm:"column:modified;autoUpdateTime" json:"-"`
}

type Candidate struct {
	ID          CandidateID       `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	CandidateID string            `gorm:"column:candidate_id;type:text;not null" json:"candidate_id"`
	FamilyName  string            `gorm:"column:family_name;type:text;not null" json:"family_name"`
	FirstName   string            `gorm:"column:first_name;type:text;not null" json:"first_name"`
	Elected     bool              `gorm:"column:elected;not null" json:"elected"`
	ElectionID  ElectionID        `gorm:"column:election_id;type:char(26);not null;index" json:"election_id"`
	ListID      *ListID           `gorm:"column:list_id;type:char(26);index" json:"list_id"`
	Party       string            `gorm:"column:party;type:text" json:"party"`
	Votes       int64             `gorm:"column:votes;not null;default:0" json:"votes"`
	Results     []CandidateResult `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt   time.Time         `gorm:"column:modified;autoUpdateTime" json:"-"`
}

type CandidateResult struct {
	ID               ResultID    `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	ElectionResultID ResultID    `gorm:"column:election_result_id;type:char(26);not null;index" json:"election_result_id"`
	CandidateID      CandidateID `gorm:"column:candidate_id;type:char(26);not null;index" json:"candidate_id"`
	Votes            int64       `gorm:"column:votes;not null;default:0" json:"votes"`
	CreatedAt        time.Time   `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt        time.Time   `gorm:"column:modified;autoUpdateTime" json:"-"`
}

// PartyResult é o resultado de um partido em uma eleição para um dado ano.
type PartyResult struct {
	ID               ResultID   `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	ElectionID       ElectionID `gorm:"column:election_id;type:char(26);not null;index" json:"election_id"`
	Name             string     `gorm:"column:name;type:text;not null" json:"name"`
	Year             int        `gorm:"column:year;not null;default:0" json:"year"`
	Color            string     `gorm:"column:color;type:text" json:"color"`
	NumberOfMandates int64      `gorm:"column:number_of_mandates;not null;default:0" json:"number_of_mandates"`
	Votes            int64      `gorm:"column:votes;not null;default:0" json:"votes"`
	TotalVotes       int64      `gorm:"column:total_votes;not null;default:0" json:"total_votes"`
	CreatedAt        time.Time  `gorm:"column:created;autoCreateTime" json:"-"`
	UpdatedAt        time.Time  `gorm:"column:modified;autoUpdateTime" json:"-"`
}

type ChangeKind string

const (
	ChangeVote     ChangeKind = "vote"
	ChangeElection ChangeKind = "election"
)

// ResultsChanged é publicado pelo importador sempre que resultados de uma
// votação ou eleição são gravados.
type ResultsChanged struct {
	Kind        ChangeKind `json:"kind"`
	ID          string     `json:"id"`
	PublishedAt time.Time  `json:"published_at"`
}

func (Vote) TableName() string { return "votes" }

func (Ballot) TableName() string { return "ballots" }

func (BallotResult) TableName() string { return "ballot_results" }

func (Election) TableName() string { return "elections" }

func (ElectionResult) TableName() string { return "election_results" }

func (ListConnection) TableName() string { return "list_connections" }

func (List) TableName() string { return "lists" }

func (ListResult) TableName() string { return "list_results" }

func (Candidate) TableName() string { return "candidates" }

func (CandidateResult) TableName() string { return "candidate_results" }

func (PartyResult) TableName() string { return "party_results" }
