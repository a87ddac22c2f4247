package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/cohort --output domain/cohort --outpkg cohortmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/gamemode --output domain/gamemode --outpkg gamemodemock --filename repository_mock.go
