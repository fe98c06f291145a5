package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
)

type employeeDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	FirstName     string             `bson:"first_name"`
	LastName      string             `bson:"last_name"`
	Email         string             `bson:"email"`
	Gender        string             `bson:"gender"`
	Designation   string             `bson:"designation"`
	Salary        int                `bson:"salary"`
	DateOfJoining time.Time          `bson:"date_of_joining"`
	Department    string             `bson:"department"`
	EmployeePhoto string             `bson:"employee_photo,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func employeeFromDomain(e *domain.Employee) employeeDocument {
	return employeeDocument{
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Gender:        e.Gender,
		Designation:   e.Designation,
		Salary:        e.Salary,
		DateOfJoining: e.DateOfJoining.UTC(),
		Department:    e.Department,
		EmployeePhoto: e.EmployeePhoto,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (d employeeDocument) toDomain() domain.Employee {
	return domain.Employee{
		ID:            d.ID.Hex(),
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Gender:        d.Gender,
		Designation:   d.Designation,
		Salary:        d.Salary,
		DateOfJoining: d.DateOfJoining,
		Department:    d.Department,
		EmployeePhoto: d.EmployeePhoto,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// employeeQuery translates a filter into a mongo query document.
func employeeQuery(filter domain.EmployeeFilter) bson.M {
	q := bson.M{}
	if filter.Designation != "" {
		q["designation"] = filter.Designation
	}
	if filter.Department != "" {
		q["department"] = filter.Department
	}
	return q
}

type EmployeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) repository.EmployeeRepository {
	return &EmployeeRepository{coll: db.Collection(employeesCollection)}
}

func (r *EmployeeRepository) Init(ctx context.Context) error {
	return ensureUniqueIndex(ctx, r.coll, "email")
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	e.CreatedAt = now
	e.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, employeeFromDomain(e))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("employee with this email already exists")
		}
		return domain.Store("insert employee", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.Store("insert employee", errors.New("unexpected inserted id type"))
	}
	e.ID = oid.Hex()
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	oid, err := objectID(e.ID, "employee not found")
	if err != nil {
		return err
	}
	e.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc := employeeFromDomain(e)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("employee with this email already exists")
		}
		return domain.Store("update employee", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("employee not found")
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, "employee not found")
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.Store("delete employee", err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFound("employee not found")
	}
	return nil
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := objectID(id, "employee not found")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *EmployeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, employeeQuery(filter), opts)
	if err != nil {
		return nil, domain.Store("list employees", err)
	}
	defer cur.Close(ctx)

	var docs []employeeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Store("decode employees", err)
	}
	employees := make([]domain.Employee, len(docs))
	for i := range docs {
		employees[i] = docs[i].toDomain()
	}
	return employees, nil
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Employee, error) {
	var doc employeeDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("employee not found")
		}
		return nil, domain.Store("find employee", err)
	}
	e := doc.toDomain()
	return &e, nil
}
